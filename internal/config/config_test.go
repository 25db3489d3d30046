package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 4, cfg.Backtest.Workers)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
server:
  port: 9090
  rate_limit_rps: 50
redis:
  enabled: true
  addr: redis:6379
  ttl: 1h
notifier:
  enabled: true
  url: https://hooks.example.com/signals
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 50.0, cfg.Server.RateLimitRPS)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host, "unset fields keep defaults")
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, time.Hour, cfg.Redis.TTL.Std())
}

func TestLoad_MissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())

	bad := Default()
	bad.Server.Port = -1
	assert.Error(t, bad.Validate())

	bad = Default()
	bad.Redis.Enabled = true
	bad.Redis.Addr = ""
	assert.Error(t, bad.Validate())

	bad = Default()
	bad.Feed.Enabled = true
	assert.Error(t, bad.Validate())

	bad = Default()
	bad.Notifier.Enabled = true
	bad.Notifier.URL = ""
	assert.Error(t, bad.Validate())
}
