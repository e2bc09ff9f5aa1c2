package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	detailCacheFile = "titles.json"
	detailCacheDir  = "detail-cache"

	defaultDetailCacheMaxAge = 24 * time.Hour
)

// DetailCacheEntry represents a single cached entry with timestamp.
type DetailCacheEntry struct {
	Data     json.RawMessage `json:"data"`
	CachedAt time.Time       `json:"cached_at"`
}

// DetailCache provides persistent JSON-based caching for per-title catalog
// responses. Listing pages are never cached; they feed the pagination engine
// directly.
type DetailCache struct {
	entries  map[string]DetailCacheEntry
	mu       sync.RWMutex
	filePath string
	dirty    bool
	maxAge   time.Duration
}

// NewDetailCache creates a new cache instance and loads existing data.
func NewDetailCache(cacheDir string, maxAge time.Duration) *DetailCache {
	if cacheDir == "" {
		cacheDir = getDefaultDetailCacheDir()
	}
	if maxAge <= 0 {
		maxAge = defaultDetailCacheMaxAge
	}

	filePath := filepath.Join(cacheDir, detailCacheFile)

	cache := &DetailCache{
		entries:  make(map[string]DetailCacheEntry),
		filePath: filePath,
		maxAge:   maxAge,
	}

	if fileExists(filePath) {
		if err := cache.load(); err != nil {
			LogWarn(context.Background(), "Failed to load detail cache: %v (starting fresh)", err)
		}
	}

	return cache
}

// Get retrieves a cached title by catalog ID.
// Returns (data, found). Expired entries are treated as cache miss.
func (c *DetailCache) Get(id int) (json.RawMessage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[detailCacheKey(id)]
	if !exists {
		return nil, false
	}

	if c.maxAge > 0 && time.Since(entry.CachedAt) > c.maxAge {
		return nil, false
	}

	return entry.Data, true
}

// Set stores a title entry in the cache.
func (c *DetailCache) Set(id int, data json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[detailCacheKey(id)] = DetailCacheEntry{
		Data:     data,
		CachedAt: time.Now(),
	}
	c.dirty = true
}

// Save persists the cache to disk if dirty.
func (c *DetailCache) Save(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dirty {
		return nil
	}

	cacheDir := filepath.Dir(c.filePath)
	// #nosec G301 - Cache directory for non-sensitive data
	if err := os.MkdirAll(cacheDir, 0o750); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	// #nosec G306 - Cache file is non-sensitive
	if err := os.WriteFile(c.filePath, data, 0o600); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}

	c.dirty = false
	LogDebug(ctx, "[Detail Cache] Saved %d entries to %s", len(c.entries), c.filePath)
	return nil
}

// load reads the cache from disk.
func (c *DetailCache) load() error {
	// #nosec G304 - File path comes from controlled cache directory
	data, err := os.ReadFile(c.filePath)
	if err != nil {
		return fmt.Errorf("read cache file: %w", err)
	}

	if err := json.Unmarshal(data, &c.entries); err != nil {
		return fmt.Errorf("unmarshal cache: %w", err)
	}

	return nil
}

// Size returns the number of cached entries.
func (c *DetailCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func detailCacheKey(id int) string {
	return fmt.Sprintf("title_%d", id)
}

func getDefaultDetailCacheDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, "anitrack", detailCacheDir)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
