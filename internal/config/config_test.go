package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/inkmap/internal/config"
	"github.com/aretw0/inkmap/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "inkmap.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	_, err = config.Load(filepath.Join(t.TempDir(), "inkmap.yaml"), true)
	assert.Error(t, err)
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inkmap.yaml")
	content := `
limits:
  history_depth: 10
  eraser_reach: "15"
store:
  backend: redis
  redis:
    addr: cache:6379
    ttl: 24h
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := config.Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Limits.HistoryDepth)
	assert.Equal(t, 15.0, cfg.Limits.EraserReach)
	assert.Equal(t, float64(domain.DefaultCanvasHeight), cfg.Limits.CanvasHeight)
	assert.Equal(t, config.BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "cache:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, "inkmap:", cfg.Store.Redis.Prefix)
	assert.Equal(t, 24*time.Hour, cfg.Store.Redis.TTL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestDecode_Rejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":  "store:\n  backend: file\n  colour: red\n",
		"bad duration": "store:\n  lock_ttl: soon\n",
		"bad yaml":     "store: [",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			assert.Error(t, config.Decode([]byte(content), &cfg))
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = "s3"
	assert.Error(t, cfg.Validate())

	cfg = config.Default()
	cfg.Store.Backend = config.BackendHTTP
	assert.Error(t, cfg.Validate())
	cfg.Store.URL = "http://localhost:8000"
	assert.NoError(t, cfg.Validate())
}
