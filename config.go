package main

import (
	cfg "github.com/anitrack/anitrack/internal/config"
)

// Re-export config types from internal/config so callers in package main
// can use the same type names.
type Config = cfg.Config

func loadConfigFromFile(filename string) (Config, error) {
	return cfg.Load(filename)
}
