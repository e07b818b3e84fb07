package client

import (
	"sync"
	"time"
)

// ValueCache holds a single string value for a fixed time-to-live
type ValueCache struct {
	mu sync.Mutex

	// Time-to-live for the cached value
	ttl time.Duration

	value      string
	expiration time.Time
	now        func() time.Time
}

// NewValueCache creates a cache; a zero ttl never stores anything
func NewValueCache(ttl time.Duration) *ValueCache {
	return &ValueCache{ttl: ttl, now: time.Now}
}

// Store caches value until the ttl elapses
func (c *ValueCache) Store(value string) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = value
	c.expiration = c.now().Add(c.ttl)
}

// Get returns the cached value if it has not expired
func (c *ValueCache) Get() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.expiration.IsZero() || !c.now().Before(c.expiration) {
		return "", false
	}
	return c.value, true
}

// Invalidate drops the cached value
func (c *ValueCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expiration = time.Time{}
}
