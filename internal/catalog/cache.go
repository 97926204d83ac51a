package catalog

import (
	"context"
	"sync"
)

// Loader produces the full catalog contents.
type Loader func(ctx context.Context) ([]*Entry, error)

// Cache holds the catalog store behind a load-once lifecycle: the loader
// runs on first use and again only after an explicit Invalidate. A failed
// load is not cached, the next call retries.
type Cache struct {
	mu     sync.Mutex
	load   Loader
	store  *MemStore
	loaded bool
}

func NewCache(load Loader) *Cache {
	return &Cache{load: load, store: NewMemStore()}
}

// Store returns the backing store, loading the catalog if needed.
func (c *Cache) Store(ctx context.Context) (*MemStore, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return c.store, nil
	}
	entries, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	c.store.Load(entries)
	c.loaded = true
	return c.store, nil
}

// Invalidate drops the cached contents; the next Store call reloads.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.loaded = false
	c.mu.Unlock()
}
