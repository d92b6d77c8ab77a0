package server

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// RenderCache is a concurrent-safe LRU cache of serialized views with TTL
// expiration. Entries are keyed by view name and the controller version
// they were rendered at, so a state change never serves a stale drawing.
type RenderCache struct {
	mu         sync.RWMutex
	entries    map[string]*renderCacheEntry
	order      []string // LRU order: front=oldest, back=newest
	maxEntries int
	ttl        time.Duration
	hits       atomic.Int64
	misses     atomic.Int64
}

type renderCacheEntry struct {
	data      []byte
	createdAt time.Time
}

// CacheStats contains cache performance statistics.
type CacheStats struct {
	Entries    int     `json:"entries"`
	MaxEntries int     `json:"max_entries"`
	Hits       int64   `json:"hits"`
	Misses     int64   `json:"misses"`
	HitRate    float64 `json:"hit_rate"`
}

// NewRenderCache creates a cache with the given capacity and TTL.
func NewRenderCache(maxEntries int, ttl time.Duration) *RenderCache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &RenderCache{
		entries:    make(map[string]*renderCacheEntry),
		maxEntries: maxEntries,
		ttl:        ttl,
	}
}

func renderKey(view string, version uint64) string {
	return view + "@" + strconv.FormatUint(version, 10)
}

// Get returns a cached view. Returns nil on miss or expiration.
func (c *RenderCache) Get(view string, version uint64) []byte {
	key := renderKey(view, version)

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)
		return nil
	}

	if c.ttl > 0 && time.Since(entry.createdAt) > c.ttl {
		delete(c.entries, key)
		c.removeFromOrder(key)
		c.misses.Add(1)
		return nil
	}

	c.removeFromOrder(key)
	c.order = append(c.order, key)
	c.hits.Add(1)
	return entry.data
}

// Put stores a view, evicting the oldest entry when at capacity.
func (c *RenderCache) Put(view string, version uint64, data []byte) {
	key := renderKey(view, version)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.entries[key] = &renderCacheEntry{data: data, createdAt: time.Now()}
		c.removeFromOrder(key)
		c.order = append(c.order, key)
		return
	}

	for len(c.entries) >= c.maxEntries && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = &renderCacheEntry{data: data, createdAt: time.Now()}
	c.order = append(c.order, key)
}

// Stats returns cache performance statistics.
func (c *RenderCache) Stats() CacheStats {
	c.mu.RLock()
	entries := len(c.entries)
	maxEntries := c.maxEntries
	c.mu.RUnlock()

	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return CacheStats{
		Entries:    entries,
		MaxEntries: maxEntries,
		Hits:       hits,
		Misses:     misses,
		HitRate:    hitRate,
	}
}

func (c *RenderCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
