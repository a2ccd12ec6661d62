package catalog

import (
	"sync"
	"time"
)

// maxCacheEntries bounds the cache; search and page queries make keys unbounded.
const maxCacheEntries = 1000

type cacheEntry struct {
	body    []byte
	expires time.Time
}

// cache keeps response bodies for ttl. A negative ttl disables it.
// Expired entries are swept on write at most once per ttl, or whenever the
// cache is full.
type cache struct {
	mu        sync.Mutex
	ttl       time.Duration
	max       int
	entries   map[string]cacheEntry
	nextSweep time.Time
	now       func() time.Time
}

func newCache(ttl time.Duration) *cache {
	return &cache{ttl: ttl, max: maxCacheEntries, entries: make(map[string]cacheEntry), now: time.Now}
}

func (c *cache) get(key string) ([]byte, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(e.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return e.body, true
}

func (c *cache) set(key string, body []byte) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, ok := c.entries[key]; !ok {
		if len(c.entries) >= c.max || !now.Before(c.nextSweep) {
			c.sweep(now)
		}
		if len(c.entries) >= c.max {
			c.evictOldest()
		}
	}
	c.entries[key] = cacheEntry{body: body, expires: now.Add(c.ttl)}
}

func (c *cache) sweep(now time.Time) {
	for key, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, key)
		}
	}
	c.nextSweep = now.Add(c.ttl)
}

// evictOldest drops the entry closest to expiry, which is the oldest write.
func (c *cache) evictOldest() {
	var oldest string
	var at time.Time
	for key, e := range c.entries {
		if oldest == "" || e.expires.Before(at) {
			oldest, at = key, e.expires
		}
	}
	delete(c.entries, oldest)
}
