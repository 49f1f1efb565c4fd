/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package log

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
)

const logPrefixFormatter = " [%s] "

// defLog is the standard default logger implementation. It wraps the Go
// 'log' package and honors the module levels registry.
type defLog struct {
	logger *stdlog.Logger
	module string
}

func newDefLog(module string) *defLog {
	return &defLog{
		logger: stdlog.New(os.Stdout, fmt.Sprintf(logPrefixFormatter, module),
			stdlog.Ldate|stdlog.Ltime|stdlog.LUTC),
		module: module,
	}
}

// Fatalf is a CRITICAL log followed by a call to os.Exit(1).
func (l *defLog) Fatalf(format string, args ...interface{}) {
	l.logf(CRITICAL, format, args...)
	os.Exit(1)
}

// Panicf is a CRITICAL log followed by a call to panic().
func (l *defLog) Panicf(format string, args ...interface{}) {
	l.logf(CRITICAL, format, args...)
	panic(fmt.Sprintf(format, args...))
}

// Debugf can be used for logging verbose messages.
// Arguments are handled in the manner of fmt.Printf.
func (l *defLog) Debugf(format string, args ...interface{}) {
	if !IsEnabledFor(l.module, DEBUG) {
		return
	}

	l.logf(DEBUG, format, args...)
}

// Infof can be used for logging general information messages.
// INFO is the default logging level.
func (l *defLog) Infof(format string, args ...interface{}) {
	if !IsEnabledFor(l.module, INFO) {
		return
	}

	l.logf(INFO, format, args...)
}

// Warnf can be used for logging possible errors.
func (l *defLog) Warnf(format string, args ...interface{}) {
	if !IsEnabledFor(l.module, WARNING) {
		return
	}

	l.logf(WARNING, format, args...)
}

// Errorf can be used for logging errors.
func (l *defLog) Errorf(format string, args ...interface{}) {
	if !IsEnabledFor(l.module, ERROR) {
		return
	}

	l.logf(ERROR, format, args...)
}

// ChangeOutput changes the output destination for the logger.
func (l *defLog) ChangeOutput(output io.Writer) {
	l.logger.SetOutput(output)
}

func (l *defLog) logf(level Level, format string, args ...interface{}) {
	err := l.logger.Output(3, fmt.Sprintf("UTC -> %s ", ParseString(level))+fmt.Sprintf(format, args...))
	if err != nil {
		fmt.Printf("error from logger.Output %v\n", err)
	}
}

type defProvider struct{}

func (p *defProvider) GetLogger(module string) Logger {
	return newDefLog(module)
}
