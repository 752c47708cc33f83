package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradelingo/config"
)

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestNewWritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "sim.log")
	log, err := New(config.LogConfig{Level: "info", Format: "console", OutputFile: path})
	require.NoError(t, err)

	log.Info("replay started")
	_ = log.Sync() // stdout sync can fail on linux

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "replay started")
}
