package availability

import (
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultFailureThreshold is the number of consecutive transient
	// failures that opens the breaker.
	DefaultFailureThreshold = 3

	// DefaultCooldown is how long probing stays short-circuited after the
	// breaker opens.
	DefaultCooldown = 5 * time.Minute
)

// Breaker tracks consecutive transient registrar failures and short-circuits
// probing for a cool-down window once a threshold is crossed. Configuration
// errors must never be recorded here; retrying those will not help.
//
// Counters are atomics rather than a mutex: contention is low and a slightly
// late trip is acceptable. The cool-down is monotonic: once set it clears
// only when the clock passes it.
type Breaker struct {
	threshold     int32
	cooldown      time.Duration
	failures      atomic.Int32
	disabledUntil atomic.Int64 // unix nanos, 0 when never tripped
}

// NewBreaker creates a breaker with the given threshold and cool-down.
// Non-positive arguments fall back to the defaults.
func NewBreaker(threshold int, cooldown time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = DefaultFailureThreshold
	}
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Breaker{
		threshold: int32(threshold),
		cooldown:  cooldown,
	}
}

// Open reports whether the breaker is currently short-circuiting calls.
// Once the cool-down elapses the next call proceeds as closed regardless of
// whether the failure count was reset in between.
func (b *Breaker) Open() bool {
	until := b.disabledUntil.Load()
	return until != 0 && time.Now().UnixNano() < until
}

// RecordFailure registers one transient upstream failure and opens the
// breaker when the consecutive-failure threshold is reached.
func (b *Breaker) RecordFailure() {
	failures := b.failures.Add(1)
	if failures >= b.threshold {
		until := time.Now().Add(b.cooldown).UnixNano()
		b.disabledUntil.Store(until)
		logrus.Warnf("Availability breaker opened after %d consecutive transient failures, disabled for %v", failures, b.cooldown)
	}
}

// RecordSuccess resets the consecutive-failure count after a successful live
// probe. It does not clear an in-progress cool-down.
func (b *Breaker) RecordSuccess() {
	b.failures.Store(0)
}

// ConsecutiveFailures returns the current consecutive-failure count.
func (b *Breaker) ConsecutiveFailures() int {
	return int(b.failures.Load())
}
