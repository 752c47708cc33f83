package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 5*time.Second, cfg.Journal.Timeout)
	assert.Equal(t, 500, cfg.Replay.Candles)
	assert.Equal(t, 100, cfg.Replay.InitialOffset)
	assert.Equal(t, 10000.0, cfg.Replay.Balance)
	assert.Empty(t, cfg.Journal.BaseURL, "journaling is disabled by default")
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
log:
  level: debug
  format: json
journal:
  base_url: http://localhost:8000
  timeout: 2s
replay:
  candles: 300
  balance: 25000
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "http://localhost:8000", cfg.Journal.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Journal.Timeout)
	assert.Equal(t, 300, cfg.Replay.Candles)
	assert.Equal(t, 25000.0, cfg.Replay.Balance)
	// Unset keys keep their defaults.
	assert.Equal(t, 100, cfg.Replay.InitialOffset)
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
