package tree

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/justyntemme/sidetree/internal/debug"
	"github.com/justyntemme/sidetree/internal/fs"
)

// Cache holds raw directory listings keyed by directory path. A miss always
// falls back to a fresh read, so a torn or stale-cleared cache is harmless.
type Cache struct {
	mu      sync.RWMutex
	entries map[string][]fs.Entry
}

// NewCache creates an empty listing cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string][]fs.Entry)}
}

// Get returns the cached listing for dir.
func (c *Cache) Get(dir string) ([]fs.Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[dir]
	return e, ok
}

// Put stores a listing for dir.
func (c *Cache) Put(dir string, entries []fs.Entry) {
	c.mu.Lock()
	c.entries[dir] = entries
	c.mu.Unlock()
}

// Invalidate drops the listing for dir and for everything cached below it.
func (c *Cache) Invalidate(dir string) {
	dir = filepath.Clean(dir)
	prefix := dir + string(filepath.Separator)

	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k := range c.entries {
		if k == dir || strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
			n++
		}
	}
	if n > 0 {
		debug.Log(debug.TREE, "Cache: invalidated %d listing(s) under %s", n, dir)
	}
}

// Clear drops every listing.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string][]fs.Entry)
	c.mu.Unlock()
}

// Len returns the number of cached listings.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
