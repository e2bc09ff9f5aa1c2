package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Store keys. Every value is a string; favorites holds a JSON-encoded array.
const (
	storeKeyFavorites = "favorites"
	storeKeyTheme     = "theme"
	storeKeyNSFW      = "nsfw"
)

const storeFile = "store.json"

// Store is the local key-value state store: a single JSON blob on disk.
// Every write is read-modify-write of the whole blob; callers serialize
// their own writes (one user-paced operation at a time).
type Store struct {
	mu       sync.Mutex
	filePath string
	data     map[string]string
}

// OpenStore loads the store file, starting empty when it does not exist yet.
func OpenStore(path string) (*Store, error) {
	if path == "" {
		path = getDefaultStorePath()
	}

	s := &Store{
		filePath: path,
		data:     make(map[string]string),
	}

	if fileExists(path) {
		raw, err := os.ReadFile(path) // #nosec G304 - path comes from config
		if err != nil {
			return nil, fmt.Errorf("read store: %w", err)
		}
		if err := json.Unmarshal(raw, &s.data); err != nil {
			return nil, fmt.Errorf("unmarshal store: %w", err)
		}
	}

	return s, nil
}

// FilePath returns where the store persists its data.
func (s *Store) FilePath() string {
	return s.filePath
}

// Read returns the value for a key and whether it was present.
func (s *Store) Read(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

// Write sets a key and persists the whole blob.
func (s *Store) Write(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return s.persist()
}

// Keys returns the stored keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LoadTracked decodes the persisted tracked-title collection.
// A missing key is an empty collection, not an error.
func (s *Store) LoadTracked() ([]TrackedTitle, error) {
	raw, ok := s.Read(storeKeyFavorites)
	if !ok || raw == "" {
		return nil, nil
	}

	var list []TrackedTitle
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, fmt.Errorf("unmarshal tracked titles: %w", err)
	}
	return list, nil
}

// SaveTracked encodes and persists the tracked-title collection.
// Untracked entries (no favorite, not watched, no episodes) are dropped, and
// duplicate ids collapse to the last occurrence, so the collection at rest
// always holds each id at most once.
func (s *Store) SaveTracked(list []TrackedTitle) error {
	byID := make(map[int]int, len(list))
	kept := make([]TrackedTitle, 0, len(list))
	for _, t := range list {
		if !t.Tracked() {
			continue
		}
		if idx, seen := byID[t.ID]; seen {
			kept[idx] = t
			continue
		}
		byID[t.ID] = len(kept)
		kept = append(kept, t)
	}

	encoded, err := json.Marshal(kept)
	if err != nil {
		return fmt.Errorf("marshal tracked titles: %w", err)
	}
	return s.Write(storeKeyFavorites, string(encoded))
}

// persist writes the blob to disk. Caller holds the lock.
func (s *Store) persist() error {
	dir := filepath.Dir(s.filePath)
	// #nosec G301 - State directory for non-sensitive data
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}

	// #nosec G306 - State file is non-sensitive
	if err := os.WriteFile(s.filePath, raw, 0o600); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	return nil
}

func getDefaultStorePath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return storeFile
	}
	return filepath.Join(configDir, "anitrack", storeFile)
}
