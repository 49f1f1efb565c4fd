/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package log

import (
	"sync"
)

const loggerNotInitializedMsg = "Default logger initialized (please call log.Initialize() " +
	"if you wish to use a custom logger)"

// Log is an implementation of the Logger interface.
// It encapsulates the default or a custom logger to provide module and
// level based logging.
type Log struct {
	instance Logger
	module   string
	once     sync.Once
}

// New creates and returns a Logger implementation based on the given module
// name. The underlying logger instance is lazily initialized on first use,
// so a custom logger provider can still be supplied through Initialize()
// before any line is logged.
func New(module string) *Log {
	return &Log{module: module}
}

// Fatalf calls the Fatalf function of the underlying logger.
func (l *Log) Fatalf(msg string, args ...interface{}) {
	l.logger().Fatalf(msg, args...)
}

// Panicf calls the Panicf function of the underlying logger.
func (l *Log) Panicf(msg string, args ...interface{}) {
	l.logger().Panicf(msg, args...)
}

// Debugf calls the Debugf function of the underlying logger.
func (l *Log) Debugf(msg string, args ...interface{}) {
	l.logger().Debugf(msg, args...)
}

// Infof calls the Infof function of the underlying logger.
func (l *Log) Infof(msg string, args ...interface{}) {
	l.logger().Infof(msg, args...)
}

// Warnf calls the Warnf function of the underlying logger.
func (l *Log) Warnf(msg string, args ...interface{}) {
	l.logger().Warnf(msg, args...)
}

// Errorf calls the Errorf function of the underlying logger.
func (l *Log) Errorf(msg string, args ...interface{}) {
	l.logger().Errorf(msg, args...)
}

func (l *Log) logger() Logger {
	l.once.Do(func() {
		l.instance = loggerProvider().GetLogger(l.module)
	})

	return l.instance
}

// nolint:gochecknoglobals
var (
	loggerProviderInstance LoggerProvider
	loggerProviderOnce     sync.Once
)

// Initialize sets the custom logger provider. It can be called only once;
// subsequent calls are ignored.
func Initialize(l LoggerProvider) {
	loggerProviderOnce.Do(func() {
		loggerProviderInstance = l
	})
}

func loggerProvider() LoggerProvider {
	loggerProviderOnce.Do(func() {
		// A custom logger provider was not supplied, use the default.
		loggerProviderInstance = &defProvider{}
		loggerProviderInstance.GetLogger(loggerModule).Debugf(loggerNotInitializedMsg)
	})

	return loggerProviderInstance
}

const loggerModule = "identity-agent/common"
