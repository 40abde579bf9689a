package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestTTLGetCachesWithinTTL(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	ttl := NewTTL[string]("test", 5*time.Minute, clock.Now)

	loads := 0
	load := func(context.Context) (string, error) {
		loads++
		return "value", nil
	}

	for i := 0; i < 3; i++ {
		v, err := ttl.Get(context.Background(), load)
		require.NoError(t, err)
		assert.Equal(t, "value", v)
	}
	assert.Equal(t, 1, loads)
}

func TestTTLExpiryTriggersReload(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	ttl := NewTTL[int]("test", 5*time.Minute, clock.Now)

	loads := 0
	load := func(context.Context) (int, error) {
		loads++
		return loads, nil
	}

	v, err := ttl.Get(context.Background(), load)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	clock.Advance(5*time.Minute + time.Second)

	v, err = ttl.Get(context.Background(), load)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestTTLInvalidate(t *testing.T) {
	ttl := NewTTL[int]("test", time.Hour, nil)

	loads := 0
	load := func(context.Context) (int, error) {
		loads++
		return loads, nil
	}

	_, err := ttl.Get(context.Background(), load)
	require.NoError(t, err)
	ttl.Invalidate()
	_, err = ttl.Get(context.Background(), load)
	require.NoError(t, err)
	assert.Equal(t, 2, loads)
}

func TestTTLErrorIsNotCached(t *testing.T) {
	ttl := NewTTL[int]("test", time.Hour, nil)

	calls := 0
	load := func(context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, errors.New("upstream down")
		}
		return 42, nil
	}

	_, err := ttl.Get(context.Background(), load)
	require.Error(t, err)

	v, err := ttl.Get(context.Background(), load)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestTTLConcurrentColdCallersShareOneLoad(t *testing.T) {
	ttl := NewTTL[string]("test", time.Hour, nil)

	var loads atomic.Int32
	load := func(context.Context) (string, error) {
		loads.Add(1)
		time.Sleep(50 * time.Millisecond)
		return "value", nil
	}

	const callers = 5
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			v, err := ttl.Get(context.Background(), load)
			assert.NoError(t, err)
			assert.Equal(t, "value", v)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), loads.Load())
}
