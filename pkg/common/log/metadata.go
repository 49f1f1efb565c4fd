/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package log

import "sync"

// levels holds the log level per module. Modules without an explicit
// level fall back to the default level (INFO).
type moduleLevels struct {
	levels       map[string]Level
	defaultLevel Level
	rwmutex      sync.RWMutex
}

func newModuleLevels() *moduleLevels {
	return &moduleLevels{levels: make(map[string]Level), defaultLevel: INFO}
}

func (l *moduleLevels) SetLevel(module string, level Level) {
	l.rwmutex.Lock()
	defer l.rwmutex.Unlock()

	l.levels[module] = level
}

func (l *moduleLevels) GetLevel(module string) Level {
	l.rwmutex.RLock()
	defer l.rwmutex.RUnlock()

	level, exists := l.levels[module]
	if !exists {
		return l.defaultLevel
	}

	return level
}

func (l *moduleLevels) IsEnabledFor(module string, level Level) bool {
	return level <= l.GetLevel(module)
}

// nolint:gochecknoglobals
var levels = newModuleLevels()

// SetLevel sets the log level for given module.
func SetLevel(module string, level Level) {
	levels.SetLevel(module, level)
}

// GetLevel returns the log level for given module. If not set, the
// default logging level is INFO.
func GetLevel(module string) Level {
	return levels.GetLevel(module)
}

// IsEnabledFor checks if the given log level is enabled for given module.
func IsEnabledFor(module string, level Level) bool {
	return levels.IsEnabledFor(module, level)
}
