/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package mocklogger provides a buffer-backed logger for testing log output.
package mocklogger

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/pds-project/identity-agent-go/pkg/common/log"
)

// MockLogger is a mocked logger that can be used for testing.
type MockLogger struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (l *MockLogger) logf(level, msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(&l.buf, level+" "+msg+"\n", args...)
}

// Fatalf records a CRITICAL entry. It does not exit.
func (l *MockLogger) Fatalf(msg string, args ...interface{}) {
	l.logf("CRITICAL", msg, args...)
}

// Panicf records a CRITICAL entry. It does not panic.
func (l *MockLogger) Panicf(msg string, args ...interface{}) {
	l.logf("CRITICAL", msg, args...)
}

// Debugf records a DEBUG entry.
func (l *MockLogger) Debugf(msg string, args ...interface{}) {
	l.logf("DEBUG", msg, args...)
}

// Infof records an INFO entry.
func (l *MockLogger) Infof(msg string, args ...interface{}) {
	l.logf("INFO", msg, args...)
}

// Warnf records a WARNING entry.
func (l *MockLogger) Warnf(msg string, args ...interface{}) {
	l.logf("WARNING", msg, args...)
}

// Errorf records an ERROR entry.
func (l *MockLogger) Errorf(msg string, args ...interface{}) {
	l.logf("ERROR", msg, args...)
}

// GetAllLogs returns everything logged so far.
func (l *MockLogger) GetAllLogs() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.buf.String()
}

// Provider is a mock logger provider that can be used for testing.
type Provider struct {
	MockLogger *MockLogger
}

// GetLogger returns the shared mock logger for every module.
func (p *Provider) GetLogger(module string) log.Logger {
	return p.MockLogger
}
