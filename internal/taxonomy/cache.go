package taxonomy

import (
	"fmt"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache keeps compiled taxonomies keyed by file path, modification time and
// size, so concurrent assay runs share one read-only value and an edited file
// is picked up on the next load.
type Cache struct {
	entries *lru.Cache[string, *Taxonomy]
}

// NewCache creates a taxonomy cache holding up to size documents.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = 1
	}
	entries, err := lru.New[string, *Taxonomy](size)
	if err != nil {
		return nil, fmt.Errorf("creating taxonomy cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

// Load returns the cached taxonomy for path, reading and compiling it when
// the file is new or has changed.
func (c *Cache) Load(path string) (*Taxonomy, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving taxonomy path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat taxonomy: %w", err)
	}

	key := fmt.Sprintf("%s|%d|%d", abs, info.ModTime().UnixNano(), info.Size())
	if t, ok := c.entries.Get(key); ok {
		return t, nil
	}

	t, err := LoadFile(abs)
	if err != nil {
		return nil, err
	}
	c.entries.Add(key, t)
	return t, nil
}

// Len returns the number of cached taxonomies.
func (c *Cache) Len() int {
	return c.entries.Len()
}
