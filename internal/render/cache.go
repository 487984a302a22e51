package render

import (
	"sync"

	"cascade/internal/geom"
)

// Cache memoizes rendered geometry by content hash for the lifetime of one
// render pass (or across passes in a watch loop, with GC in between). Safe
// for concurrent use; each distinct hash computes at most once.
type Cache struct {
	mu      sync.Mutex
	entries map[Digest]*cacheEntry
	hits    uint64
	misses  uint64
}

type cacheEntry struct {
	once    sync.Once
	geo     *geom.Geometry
	err     error
	cost    int
	touched bool
}

// Stats is a snapshot of cache accounting.
type Stats struct {
	Hits    uint64
	Misses  uint64
	Entries int
	// Cost is the total vertex count held.
	Cost int
}

func NewCache() *Cache {
	return &Cache{entries: make(map[Digest]*cacheEntry)}
}

// GetOrCompute returns the geometry for key, running compute only if no
// earlier call did. Concurrent callers for the same key block until the
// single computation finishes; errors are cached like results.
func (c *Cache) GetOrCompute(key Digest, compute func() (*geom.Geometry, error)) (*geom.Geometry, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &cacheEntry{}
		c.entries[key] = e
		c.misses++
	} else {
		c.hits++
	}
	e.touched = true
	c.mu.Unlock()

	e.once.Do(func() {
		e.geo, e.err = compute()
		if e.geo != nil {
			e.cost = e.geo.Cost()
		}
	})
	return e.geo, e.err
}

// BeginPass clears the touched marks; the following GC evicts everything
// the pass did not reach.
func (c *Cache) BeginPass() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		e.touched = false
	}
}

// GC evicts entries untouched since BeginPass and returns how many.
func (c *Cache) GC() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	evicted := 0
	for k, e := range c.entries {
		if !e.touched {
			delete(c.entries, k)
			evicted++
		}
	}
	return evicted
}

func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Stats{Hits: c.hits, Misses: c.misses, Entries: len(c.entries)}
	for _, e := range c.entries {
		s.Cost += e.cost
	}
	return s
}
