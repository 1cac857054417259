// FILE: faultline/src/cmd/faultline/flags_test.go
package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	t.Run("ServiceFlagsConsumed", func(t *testing.T) {
		fc, rest, err := ParseFlags([]string{"-c", "/etc/f.toml", "--quiet", "--log_dir=/var/log/app"})
		require.NoError(t, err)
		assert.Equal(t, "/etc/f.toml", fc.ConfigFile)
		assert.True(t, fc.Quiet)
		assert.Equal(t, []string{"--log_dir=/var/log/app"}, rest)
	})

	t.Run("InlineValue", func(t *testing.T) {
		fc, _, err := ParseFlags([]string{"--config=/etc/f.toml", "--quiet=false", "-v"})
		require.NoError(t, err)
		assert.Equal(t, "/etc/f.toml", fc.ConfigFile)
		assert.False(t, fc.Quiet)
		assert.True(t, fc.ShowVersion)
	})

	t.Run("MissingConfigValue", func(t *testing.T) {
		_, _, err := ParseFlags([]string{"--config"})
		assert.Error(t, err)
	})
}

func TestParseLogLevel(t *testing.T) {
	for _, name := range []string{"debug", "INFO", "warn", "warning", "error"} {
		_, err := parseLogLevel(name)
		assert.NoError(t, err, name)
	}
	_, err := parseLogLevel("verbose")
	assert.Error(t, err)
}
