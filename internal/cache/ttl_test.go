package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTL_GetSet(t *testing.T) {
	c := NewTTL[bool](time.Minute, 0)
	defer c.Close()

	_, ok := c.Get("example.com")
	assert.False(t, ok)

	c.Set("example.com", true)
	c.Set("taken.com", false)

	v, ok := c.Get("example.com")
	assert.True(t, ok)
	assert.True(t, v)

	v, ok = c.Get("taken.com")
	assert.True(t, ok)
	assert.False(t, v)
}

func TestTTL_ExpiresOnRead(t *testing.T) {
	// Sweep disabled so expiry can only come from the read path.
	c := NewTTL[string](20*time.Millisecond, 0)
	defer c.Close()

	c.Set("key", "value")

	v, ok := c.Get("key")
	assert.True(t, ok)
	assert.Equal(t, "value", v)

	time.Sleep(30 * time.Millisecond)

	_, ok = c.Get("key")
	assert.False(t, ok, "expired entry must not be returned even before a sweep runs")
	assert.Equal(t, 1, c.Len(), "lazy expiry does not remove the entry")
}

func TestTTL_SetResetsFreshness(t *testing.T) {
	c := NewTTL[int](50*time.Millisecond, 0)
	defer c.Close()

	c.Set("key", 1)
	time.Sleep(30 * time.Millisecond)
	c.Set("key", 2)
	time.Sleep(30 * time.Millisecond)

	v, ok := c.Get("key")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestTTL_SweepRemovesExpiredEntries(t *testing.T) {
	c := NewTTL[bool](10*time.Millisecond, 15*time.Millisecond)
	defer c.Close()

	for i := 0; i < 10; i++ {
		c.Set(fmt.Sprintf("domain-%d.com", i), true)
	}
	assert.Equal(t, 10, c.Len())

	assert.Eventually(t, func() bool {
		return c.Len() == 0
	}, time.Second, 10*time.Millisecond, "sweep should remove expired entries")
}

func TestTTL_ConcurrentAccess(t *testing.T) {
	c := NewTTL[int](time.Minute, 0)
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", n%5)
			for j := 0; j < 100; j++ {
				c.Set(key, j)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, c.Len())
}
