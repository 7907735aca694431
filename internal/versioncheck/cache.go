package versioncheck

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	cacheFileName = "version-check.json"
	// DefaultCacheMaxAge is the default maximum age for a cached entry.
	DefaultCacheMaxAge = 24 * time.Hour
)

// Cache holds the last known latest version per package.
type Cache struct {
	Entries map[string]Entry `json:"entries"`
}

// Entry is one cached lookup.
type Entry struct {
	Latest    string    `json:"latest"`
	CheckedAt time.Time `json:"checked_at"`
}

// LoadCache reads the version cache from the config directory.
// Returns an empty cache if the file does not exist (first run).
func LoadCache(configDir string) (*Cache, error) {
	path := filepath.Join(configDir, cacheFileName)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Cache{Entries: map[string]Entry{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading version cache: %w", err)
	}

	var cache Cache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, fmt.Errorf("parsing version cache: %w", err)
	}
	if cache.Entries == nil {
		cache.Entries = map[string]Entry{}
	}
	return &cache, nil
}

// SaveCache writes the version cache to the config directory.
func SaveCache(configDir string, cache *Cache) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling version cache: %w", err)
	}

	path := filepath.Join(configDir, cacheFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing version cache: %w", err)
	}
	return nil
}

// IsStale reports whether e is older than maxAge at now.
func (e Entry) IsStale(now time.Time, maxAge time.Duration) bool {
	return e.CheckedAt.IsZero() || now.Sub(e.CheckedAt) > maxAge
}
