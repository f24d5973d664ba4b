// Package ratelimit provides request admission control: a fixed trailing
// window quota per client identity, plus a short-horizon token-bucket guard
// against bursts.
package ratelimit

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pulseworks/marketpulse/internal/metrics"
)

// Limiter enforces a fixed number of requests per trailing window for each
// client identity. The prune-check-append sequence runs under one lock so two
// concurrent calls for the same client cannot both observe a vacancy.
type Limiter struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	limit   int
	window  time.Duration
	clock   clockwork.Clock
}

// NewLimiter creates a limiter admitting at most limit requests per window
// for each client.
func NewLimiter(limit int, window time.Duration, clock clockwork.Clock) *Limiter {
	return &Limiter{
		windows: make(map[string][]time.Time),
		limit:   limit,
		window:  window,
		clock:   clock,
	}
}

// Allow reports whether a request from clientID is admitted. Timestamps older
// than the window are pruned before the count check; a rejected call records
// nothing.
func (l *Limiter) Allow(clientID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	cutoff := now.Add(-l.window)

	stamps := l.windows[clientID]
	pruned := stamps[:0]
	for _, ts := range stamps {
		if ts.After(cutoff) {
			pruned = append(pruned, ts)
		}
	}

	if len(pruned) >= l.limit {
		l.windows[clientID] = pruned
		metrics.RateLimitRejections.WithLabelValues("window").Inc()
		return false
	}

	l.windows[clientID] = append(pruned, now)
	return true
}

// Remaining returns how many requests clientID may still make in the current
// window, without recording anything.
func (l *Limiter) Remaining(clientID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.clock.Now().Add(-l.window)
	active := 0
	for _, ts := range l.windows[clientID] {
		if ts.After(cutoff) {
			active++
		}
	}
	if active >= l.limit {
		return 0
	}
	return l.limit - active
}

// Window returns the configured window length.
func (l *Limiter) Window() time.Duration {
	return l.window
}

// TrackedClients returns the number of client identities currently holding a
// window, including idle ones not yet evicted.
func (l *Limiter) TrackedClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// EvictIdle removes clients whose every timestamp has aged out of the window
// and returns the count evicted. Admission itself only prunes the calling
// client's window, so idle identities linger until this runs.
func (l *Limiter) EvictIdle() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.clock.Now().Add(-l.window)
	evicted := 0
	for id, stamps := range l.windows {
		idle := true
		for _, ts := range stamps {
			if ts.After(cutoff) {
				idle = false
				break
			}
		}
		if idle {
			delete(l.windows, id)
			evicted++
		}
	}
	metrics.RateLimitClients.Set(float64(len(l.windows)))
	return evicted
}

// StartEvictionTimer starts a background goroutine that periodically evicts
// idle client windows. Returns a stop function.
func (l *Limiter) StartEvictionTimer(interval time.Duration) func() {
	ticker := l.clock.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.Chan():
				if evicted := l.EvictIdle(); evicted > 0 {
					slog.Debug("Evicted idle rate limiter clients",
						"count", evicted,
						"remaining", l.TrackedClients(),
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
