/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package log_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pds-project/identity-agent-go/pkg/common/log"
	"github.com/pds-project/identity-agent-go/pkg/common/log/mocklogger"
)

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]log.Level{
		"CRITICAL": log.CRITICAL,
		"error":    log.ERROR,
		"Warning":  log.WARNING,
		"INFO":     log.INFO,
		"debug":    log.DEBUG,
	} {
		level, err := log.ParseLevel(name)
		require.NoError(t, err)
		require.Equal(t, want, level)
	}

	_, err := log.ParseLevel("bogus")
	require.Error(t, err)
}

func TestParseString(t *testing.T) {
	require.Equal(t, "DEBUG", log.ParseString(log.DEBUG))
	require.Equal(t, "CRITICAL", log.ParseString(log.CRITICAL))
}

func TestModuleLevels(t *testing.T) {
	const module = "identity-agent/test-levels"

	// unset module defaults to INFO
	require.Equal(t, log.INFO, log.GetLevel(module))
	require.True(t, log.IsEnabledFor(module, log.WARNING))
	require.False(t, log.IsEnabledFor(module, log.DEBUG))

	log.SetLevel(module, log.DEBUG)
	require.Equal(t, log.DEBUG, log.GetLevel(module))
	require.True(t, log.IsEnabledFor(module, log.DEBUG))

	log.SetLevel(module, log.ERROR)
	require.False(t, log.IsEnabledFor(module, log.WARNING))
	require.True(t, log.IsEnabledFor(module, log.ERROR))
}

func TestCustomProvider(t *testing.T) {
	mock := &mocklogger.MockLogger{}
	log.Initialize(&mocklogger.Provider{MockLogger: mock})

	logger := log.New("identity-agent/test-custom")
	logger.Infof("hello %s", "world")

	require.Contains(t, mock.GetAllLogs(), "INFO hello world")
}
