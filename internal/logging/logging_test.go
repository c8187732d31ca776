package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewConsoleFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer

	logger := NewConsole(&buf, zapcore.WarnLevel)
	logger.Info("hidden")
	logger.Warn("shown", zap.String("url", "http://example.com/a%zz"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "http://example.com/a%zz")
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNewDefaultsToStderr(t *testing.T) {
	logger, err := New(Config{})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linkdex.log")

	logger, err := New(Config{Level: "info", File: path})
	require.NoError(t, err)

	logger.Info("scan finished", zap.Int("urls", 3))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"scan finished"`)
	assert.Contains(t, string(data), `"urls":3`)
}
