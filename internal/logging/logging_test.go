package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"":        zapcore.InfoLevel,
		"DEBUG":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"Warning": zapcore.WarnLevel,
		"warn":    zapcore.WarnLevel,
		" error ": zapcore.ErrorLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew_FileReceivesErrorsOnly(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "error.log")

	logger, err := New("debug", file)
	require.NoError(t, err)

	logger.Info("routine message")
	logger.Error("query failed")
	_ = logger.Sync()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "query failed")
	assert.NotContains(t, string(data), "routine message")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("verbose", "")
	assert.Error(t, err)
}
