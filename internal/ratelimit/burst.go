package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/pulseworks/marketpulse/internal/metrics"
)

// BurstGuard limits the short-horizon rate of requests per client using a
// token bucket. It sits in front of the fixed-window quota so a client cannot
// spend its whole hourly budget in one spike.
type BurstGuard struct {
	mu        sync.Mutex
	limiters  map[string]*burstEntry
	rate      rate.Limit
	burst     int
	cleanupAt time.Time
}

type burstEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const burstCleanupInterval = 5 * time.Minute

// NewBurstGuard creates a guard allowing perSecond sustained requests with
// the given burst size per client.
func NewBurstGuard(perSecond float64, burst int) *BurstGuard {
	return &BurstGuard{
		limiters:  make(map[string]*burstEntry),
		rate:      rate.Limit(perSecond),
		burst:     burst,
		cleanupAt: time.Now().Add(burstCleanupInterval),
	}
}

// Allow reports whether a request from clientID fits the burst budget.
func (g *BurstGuard) Allow(clientID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if time.Now().After(g.cleanupAt) {
		g.cleanup()
		g.cleanupAt = time.Now().Add(burstCleanupInterval)
	}

	entry, exists := g.limiters[clientID]
	if !exists {
		entry = &burstEntry{
			limiter:  rate.NewLimiter(g.rate, g.burst),
			lastSeen: time.Now(),
		}
		g.limiters[clientID] = entry
	}

	entry.lastSeen = time.Now()
	if !entry.limiter.Allow() {
		metrics.RateLimitRejections.WithLabelValues("burst").Inc()
		return false
	}
	return true
}

// cleanup removes limiters unused for two cleanup intervals.
// Must be called with mu held.
func (g *BurstGuard) cleanup() {
	cutoff := time.Now().Add(-2 * burstCleanupInterval)
	for id, entry := range g.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(g.limiters, id)
		}
	}
}

// ActiveLimiters returns the number of tracked client buckets.
func (g *BurstGuard) ActiveLimiters() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.limiters)
}
