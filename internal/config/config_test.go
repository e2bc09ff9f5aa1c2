package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NoError(t, err)
	assert.Equal(t, "", cfg.Catalog.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.GetHTTPTimeout())
	assert.Equal(t, 24*time.Hour, cfg.GetCacheMaxAge())
	assert.Equal(t, 700*time.Millisecond, cfg.GetRefreshPace())
}

func TestLoad_FromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
catalog:
  base_url: "https://catalog.example/v4"
  http_timeout: "30s"
store:
  path: "/tmp/anitrack/store.json"
cache:
  dir: "/tmp/anitrack/cache"
  max_age: "48h"
refresh:
  pace: "1s"
`
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, "https://catalog.example/v4", cfg.Catalog.BaseURL)
	assert.Equal(t, "/tmp/anitrack/store.json", cfg.Store.Path)
	assert.Equal(t, 30*time.Second, cfg.GetHTTPTimeout())
	assert.Equal(t, 48*time.Hour, cfg.GetCacheMaxAge())
	assert.Equal(t, time.Second, cfg.GetRefreshPace())
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	assert.NoError(t, os.WriteFile(path, []byte("catalog: ["), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
catalog:
  base_url: "https://from-file.example"
`
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("ANITRACK_BASE_URL", "https://from-env.example")
	t.Setenv("ANITRACK_STORE_PATH", "/env/store.json")

	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, "https://from-env.example", cfg.Catalog.BaseURL)
	assert.Equal(t, "/env/store.json", cfg.Store.Path)
}

func TestParseDuration_BadValueFallsBack(t *testing.T) {
	cfg := Config{Refresh: RefreshConfig{Pace: "soonish"}}
	assert.Equal(t, 700*time.Millisecond, cfg.GetRefreshPace())
}
