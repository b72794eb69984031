package ratelimit

import (
	"sync"
	"time"
)

// Decision is the outcome of an Allow check.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter is a per-key sliding-window request gate. It is consulted once
// before any orchestration begins; a denied key never reaches the
// orchestrator.
type Limiter struct {
	limit  int
	window time.Duration

	mu      sync.Mutex
	windows map[string][]time.Time
	stop    chan struct{}
	once    sync.Once
}

// NewLimiter creates a limiter allowing limit requests per key per window
// and starts a background cleanup of stale keys.
func NewLimiter(limit int, window time.Duration) *Limiter {
	l := &Limiter{
		limit:   limit,
		window:  window,
		windows: make(map[string][]time.Time),
		stop:    make(chan struct{}),
	}

	go l.cleanup()

	return l
}

// Allow records one request for key if the sliding window has room.
func (l *Limiter) Allow(key string) Decision {
	now := time.Now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	recent := prune(l.windows[key], cutoff)

	if len(recent) >= l.limit {
		l.windows[key] = recent
		return Decision{
			Allowed:   false,
			Remaining: 0,
			ResetAt:   recent[0].Add(l.window),
		}
	}

	recent = append(recent, now)
	l.windows[key] = recent

	return Decision{
		Allowed:   true,
		Remaining: l.limit - len(recent),
		ResetAt:   recent[0].Add(l.window),
	}
}

// Close stops the background cleanup.
func (l *Limiter) Close() {
	l.once.Do(func() {
		close(l.stop)
	})
}

// cleanup drops keys whose entire window has aged out so one-off client
// keys do not accumulate forever.
func (l *Limiter) cleanup() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-l.window)
			l.mu.Lock()
			for key, stamps := range l.windows {
				if len(prune(stamps, cutoff)) == 0 {
					delete(l.windows, key)
				}
			}
			l.mu.Unlock()
		case <-l.stop:
			return
		}
	}
}

// prune drops timestamps at or before the cutoff, keeping order.
func prune(stamps []time.Time, cutoff time.Time) []time.Time {
	idx := 0
	for idx < len(stamps) && !stamps[idx].After(cutoff) {
		idx++
	}
	return stamps[idx:]
}
