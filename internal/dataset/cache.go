package dataset

import "sync"

// Cache is a process-wide read-through cache of loaded datasets keyed by
// file path. A dataset is loaded at most once per process; entries live
// until the process exits. Load failures are not cached, so a file that
// appears after startup is picked up on the next request.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*Dataset
}

// NewCache creates an empty dataset cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Dataset)}
}

// Get returns the dataset for path, loading it on first use.
func (c *Cache) Get(path string) (*Dataset, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ds, ok := c.entries[path]; ok {
		return ds, nil
	}

	ds, err := Load(path)
	if err != nil {
		return nil, err
	}
	c.entries[path] = ds
	return ds, nil
}
