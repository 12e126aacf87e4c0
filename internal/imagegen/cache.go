package imagegen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Cache stores generated banners on disk, one PNG per key.
type Cache struct {
	dir    string
	maxAge time.Duration
	now    func() time.Time
}

// NewCache creates dir if needed. Banners older than a week are treated as
// missing so they get regenerated.
func NewCache(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image cache dir: %w", err)
	}
	return &Cache{dir: dir, maxAge: 7 * 24 * time.Hour, now: time.Now}, nil
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, fmt.Sprintf("banner_%s.png", key))
}

// Get returns a fresh cached banner.
func (c *Cache) Get(key string) ([]byte, bool) {
	path := c.path(key)
	info, err := os.Stat(path)
	if err != nil || c.now().Sub(info.ModTime()) > c.maxAge {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

func (c *Cache) Set(key string, data []byte) error {
	tmp := c.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, c.path(key))
}

// GetAny returns any cached banner, stale or not.
func (c *Cache) GetAny() ([]byte, bool) {
	for _, key := range c.List() {
		if data, err := os.ReadFile(c.path(key)); err == nil {
			return data, true
		}
	}
	return nil, false
}

// List returns the keys of all cached banners.
func (c *Cache) List() []string {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil
	}
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "banner_") || filepath.Ext(name) != ".png" {
			continue
		}
		keys = append(keys, strings.TrimSuffix(strings.TrimPrefix(name, "banner_"), ".png"))
	}
	return keys
}
