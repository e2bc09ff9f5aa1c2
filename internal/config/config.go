// Package config provides configuration loading and default values.
package config

import (
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"
)

type CatalogConfig struct {
	BaseURL     string `yaml:"base_url"`
	HTTPTimeout string `yaml:"http_timeout"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

type CacheConfig struct {
	Dir    string `yaml:"dir"`
	MaxAge string `yaml:"max_age"`
}

type RefreshConfig struct {
	Pace string `yaml:"pace"`
}

type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Store   StoreConfig   `yaml:"store"`
	Cache   CacheConfig   `yaml:"cache"`
	Refresh RefreshConfig `yaml:"refresh"`
}

// Load reads configuration from a YAML file and applies environment
// overrides. A missing file is not an error; defaults apply.
func Load(filename string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(filename) // #nosec G304 - path given by the user
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	} else if !os.IsNotExist(err) {
		return Config{}, err
	}

	if v := os.Getenv("ANITRACK_BASE_URL"); v != "" {
		cfg.Catalog.BaseURL = v
	}
	if v := os.Getenv("ANITRACK_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("ANITRACK_CACHE_DIR"); v != "" {
		cfg.Cache.Dir = v
	}

	return cfg, nil
}

// GetHTTPTimeout parses the catalog HTTP timeout, defaulting to 15s.
func (c Config) GetHTTPTimeout() time.Duration {
	return parseDuration(c.Catalog.HTTPTimeout, 15*time.Second)
}

// GetCacheMaxAge parses the detail-cache max age, defaulting to 24h.
func (c Config) GetCacheMaxAge() time.Duration {
	return parseDuration(c.Cache.MaxAge, 24*time.Hour)
}

// GetRefreshPace parses the refresh inter-item delay, defaulting to 700ms.
func (c Config) GetRefreshPace() time.Duration {
	return parseDuration(c.Refresh.Pace, 700*time.Millisecond)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
