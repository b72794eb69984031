package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	b := NewBreaker(3, time.Minute)

	b.RecordFailure()
	b.RecordFailure()
	assert.False(t, b.Open(), "breaker must stay closed below the threshold")

	b.RecordFailure()
	assert.True(t, b.Open(), "third consecutive failure must open the breaker")
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	b := NewBreaker(3, time.Minute)

	b.RecordFailure()
	b.RecordFailure()
	b.RecordSuccess()
	assert.Equal(t, 0, b.ConsecutiveFailures())

	b.RecordFailure()
	b.RecordFailure()
	assert.False(t, b.Open(), "count must restart after a success")
}

func TestBreaker_ReclosesWhenCooldownElapses(t *testing.T) {
	b := NewBreaker(1, 20*time.Millisecond)

	b.RecordFailure()
	assert.True(t, b.Open())

	time.Sleep(30 * time.Millisecond)
	assert.False(t, b.Open(), "breaker re-closes once the clock passes the cool-down")
}

func TestBreaker_SuccessDoesNotClearCooldownEarly(t *testing.T) {
	b := NewBreaker(1, time.Minute)

	b.RecordFailure()
	b.RecordSuccess()
	assert.True(t, b.Open(), "cool-down is monotonic and never cleared early")
}

func TestBreaker_ReopensAfterCooldownOnNewFailures(t *testing.T) {
	b := NewBreaker(2, 10*time.Millisecond)

	b.RecordFailure()
	b.RecordFailure()
	assert.True(t, b.Open())

	time.Sleep(20 * time.Millisecond)
	assert.False(t, b.Open())

	b.RecordFailure()
	assert.True(t, b.Open(), "count above threshold re-opens on the next transient failure")
}
