package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWithWriterLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, false)
	logger.Debug("hidden")
	logger.Info("shown", zap.String("route", "/output"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, `"route": "/output"`)
}

func TestNewWithWriterDebug(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(&buf, true).Debug("visible")
	assert.Contains(t, buf.String(), "DEBUG")
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "postpilot.log")
	logger, closeFn, err := New(Options{File: path})
	require.NoError(t, err)

	logger.Info("hello file")
	_ = logger.Sync()
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
	l := zap.NewExample()
	assert.Same(t, l, OrNop(l))
}
