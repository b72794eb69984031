package cache

import (
	"sync"
	"time"
)

// entry wraps a cached value with the time it was written.
type entry[V any] struct {
	value     V
	writtenAt time.Time
}

// TTL is a freshness cache: values expire a fixed duration after they are
// written and there is no capacity-based eviction. Reads never return a value
// older than the TTL even between sweeps. Safe for concurrent use,
// last-writer-wins on the same key.
type TTL[V any] struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]entry[V]
	stop    chan struct{}
	once    sync.Once
}

// NewTTL creates a new TTL cache and starts its background sweep. The sweep
// runs at sweepInterval and removes entries older than ttl to bound memory;
// pass sweepInterval <= 0 to disable the sweep (reads still expire lazily).
func NewTTL[V any](ttl, sweepInterval time.Duration) *TTL[V] {
	c := &TTL[V]{
		ttl:     ttl,
		entries: make(map[string]entry[V]),
		stop:    make(chan struct{}),
	}

	if sweepInterval > 0 {
		go c.sweep(sweepInterval)
	}

	return c
}

// Get returns the value for key if it was written less than the TTL ago.
func (c *TTL[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || time.Since(e.writtenAt) >= c.ttl {
		var zero V
		return zero, false
	}

	return e.value, true
}

// Set stores value under key, resetting its freshness window.
func (c *TTL[V]) Set(key string, value V) {
	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, writtenAt: time.Now()}
	c.mu.Unlock()
}

// Len returns the number of stored entries, including ones that have expired
// but not yet been swept.
func (c *TTL[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the background sweep. The cache remains usable afterwards.
func (c *TTL[V]) Close() {
	c.once.Do(func() {
		close(c.stop)
	})
}

// sweep periodically removes expired entries so that keys that are never
// read again do not accumulate.
func (c *TTL[V]) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stop:
			return
		}
	}
}

// removeExpired deletes every entry older than the TTL.
func (c *TTL[V]) removeExpired() {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		if now.Sub(e.writtenAt) >= c.ttl {
			delete(c.entries, key)
		}
	}
}
