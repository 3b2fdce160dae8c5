package render

import (
	"sync"
	"time"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

// Cache keeps rendered diagrams in memory, keyed by day.
type Cache struct {
	mu      sync.RWMutex
	entries map[int]entry
	ttl     time.Duration
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[int]entry),
		ttl:     ttl,
	}
}

// Get returns the cached image for day if still valid.
func (c *Cache) Get(day int) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[day]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.data, true
}

// Set stores an image and drops any expired entries.
func (c *Cache) Set(day int, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for d, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, d)
		}
	}
	c.entries[day] = entry{data: data, expiresAt: now.Add(c.ttl)}
}
