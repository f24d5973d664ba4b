// Package cache provides a keyed in-memory store with TTL-based expiry and a
// stale read path used as fallback when upstream providers are throttled.
package cache

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pulseworks/marketpulse/internal/metrics"
)

type entry[V any] struct {
	value     V
	createdAt time.Time
}

// TTLCache maps string keys to values stamped with their creation time.
// Reads are expiry-aware; writes sweep the whole store. At most one live
// entry exists per key. All state is process-lifetime only.
type TTLCache[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	ttl     time.Duration
	clock   clockwork.Clock
}

// New creates a cache whose entries expire once their age reaches ttl.
func New[V any](ttl time.Duration, clock clockwork.Clock) *TTLCache[V] {
	return &TTLCache[V]{
		entries: make(map[string]entry[V]),
		ttl:     ttl,
		clock:   clock,
	}
}

// Get retrieves a fresh value. An entry whose age has reached the TTL is
// logically absent even if it has not been swept yet.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok || c.expired(e, c.clock.Now()) {
		// Expired entries are not deleted here (read lock only);
		// removal happens on the next Put sweep or eviction tick.
		var zero V
		metrics.CacheMisses.Inc()
		return zero, false
	}

	metrics.CacheHits.Inc()
	return e.value, true
}

// GetStale retrieves a value regardless of expiry. Only the rate-limit
// fallback path uses this; a stale answer is preferred over a hard error
// when the provider is throttled.
func (c *TTLCache[V]) GetStale(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Put stores value under key with the current time and sweeps every expired
// entry from the store. Overwrites any previous entry for the key.
func (c *TTLCache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	c.entries[key] = entry[V]{value: value, createdAt: now}

	evicted := 0
	for k, e := range c.entries {
		if c.expired(e, now) {
			delete(c.entries, k)
			evicted++
		}
	}
	if evicted > 0 {
		metrics.CacheEvictions.Add(float64(evicted))
	}
	metrics.CacheSize.Set(float64(len(c.entries)))
}

// Invalidate explicitly removes an entry.
func (c *TTLCache[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	metrics.CacheSize.Set(float64(len(c.entries)))
}

// Clear removes all entries.
func (c *TTLCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[V])
	metrics.CacheSize.Set(0)
}

// Size returns the current number of entries, including expired ones that
// have not been swept yet.
func (c *TTLCache[V]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// EvictExpired removes all expired entries and returns the count evicted.
func (c *TTLCache[V]) EvictExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	evicted := 0
	for k, e := range c.entries {
		if c.expired(e, now) {
			delete(c.entries, k)
			evicted++
		}
	}
	if evicted > 0 {
		metrics.CacheEvictions.Add(float64(evicted))
	}
	metrics.CacheSize.Set(float64(len(c.entries)))
	return evicted
}

// StartEvictionTimer starts a background goroutine that periodically evicts
// expired entries, bounding growth during write-quiet periods. Returns a stop
// function that must be called to clean up the goroutine.
func (c *TTLCache[V]) StartEvictionTimer(interval time.Duration) func() {
	ticker := c.clock.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.Chan():
				if evicted := c.EvictExpired(); evicted > 0 {
					slog.Debug("Evicted expired cache entries",
						"count", evicted,
						"remaining", c.Size(),
					)
				}
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() {
		close(done)
	}
}

func (c *TTLCache[V]) expired(e entry[V], now time.Time) bool {
	return now.Sub(e.createdAt) >= c.ttl
}
