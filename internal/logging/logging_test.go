package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, level)

	level, err = ParseLevel(" WARN ")
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, filepath.Join(os.TempDir(), DefaultFileName), DefaultPath())
}

func TestNew_WritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, used := New(Options{File: path, Level: "info"})
	assert.Equal(t, path, used)

	logger.Debug("hidden")
	logger.Info("preview started", zap.String("url", "https://youtu.be/x"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, `"msg":"preview started"`)
	assert.Contains(t, content, `"url":"https://youtu.be/x"`)
	assert.False(t, strings.Contains(content, "hidden"))
}

func TestNew_FallsBackToConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "app.log")
	logger, used := New(Options{File: path})
	assert.Empty(t, used)
	assert.NotNil(t, logger)
}
