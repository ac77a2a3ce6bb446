package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTL is a concurrency-safe map whose entries expire. Expired entries are
// removed on read.
type TTL[V any] struct {
	mu       sync.Mutex
	entries  map[string]entry[V]
	clockNow func() time.Time
}

func NewTTL[V any](clockNow func() time.Time) *TTL[V] {
	if clockNow == nil {
		clockNow = time.Now
	}
	return &TTL[V]{
		entries:  make(map[string]entry[V]),
		clockNow: clockNow,
	}
}

func (c *TTL[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.clockNow().After(e.expiresAt) {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value for ttl. A non-positive ttl is ignored.
func (c *TTL[V]) Set(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, expiresAt: c.clockNow().Add(ttl)}
}

func (c *TTL[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len counts entries, including expired ones not yet evicted.
func (c *TTL[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
