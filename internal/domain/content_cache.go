package domain

import (
	"sync"
	"time"
)

type contentEntry struct {
	content   string
	fetchedAt time.Time
}

// ContentCache is a time-bound store for fetched skill content. Expiry is
// checked lazily at read time; stale entries stay in place until overwritten.
// Concurrent Put calls for the same key are last-write-wins, which is safe
// because a skill's source URL always yields the same content.
type ContentCache struct {
	mu      sync.RWMutex
	entries map[string]contentEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewContentCache creates a cache whose entries are fresh for ttl.
func NewContentCache(ttl time.Duration) *ContentCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTLSeconds * time.Second
	}
	return &ContentCache{
		entries: make(map[string]contentEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached content for a skill if present and fresh. An
// expired entry behaves exactly like a missing one.
func (c *ContentCache) Get(name string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[name]
	if !ok {
		return "", false
	}
	if c.now().Sub(entry.fetchedAt) >= c.ttl {
		return "", false
	}
	return entry.content, true
}

// Put stores content with the current timestamp, overwriting any prior entry.
func (c *ContentCache) Put(name, content string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = contentEntry{content: content, fetchedAt: c.now()}
}

// Clear removes all entries. Test isolation only; not exposed on any
// external interface.
func (c *ContentCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]contentEntry)
}

// Size returns the current number of entries, fresh or stale.
func (c *ContentCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// SetClock overrides the cache's time source. Tests use this to simulate
// TTL expiry without sleeping.
func (c *ContentCache) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if now != nil {
		c.now = now
	}
}
