package memo

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoMemoizesByKey(t *testing.T) {
	cache := NewCache(time.Hour)
	var computed atomic.Int32

	fn := func() (any, error) {
		computed.Add(1)
		return "value", nil
	}

	first, err := cache.Do("k", []string{"t"}, fn)
	require.NoError(t, err)
	second, err := cache.Do("k", []string{"t"}, fn)
	require.NoError(t, err)

	assert.Equal(t, "value", first)
	assert.Equal(t, "value", second)
	assert.Equal(t, int32(1), computed.Load())
	assert.Equal(t, 1, cache.Len())
}

func TestDoDoesNotCacheErrors(t *testing.T) {
	cache := NewCache(time.Hour)
	var computed atomic.Int32

	_, err := cache.Do("k", nil, func() (any, error) {
		computed.Add(1)
		return nil, errors.New("transient")
	})
	require.Error(t, err)

	value, err := cache.Do("k", nil, func() (any, error) {
		computed.Add(1)
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, value)
	assert.Equal(t, int32(2), computed.Load())
}

func TestDoConcurrentCallersShareOneComputation(t *testing.T) {
	cache := NewCache(time.Hour)
	var computed atomic.Int32
	release := make(chan struct{})

	const callers = 10
	var wg sync.WaitGroup
	results := make([]any, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = cache.Do("k", nil, func() (any, error) {
				computed.Add(1)
				<-release
				return "shared", nil
			})
		}(i)
	}

	// Give the first caller time to claim the in-flight slot.
	time.Sleep(10 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), computed.Load())
	for _, result := range results {
		assert.Equal(t, "shared", result)
	}
}

func TestInvalidateByTag(t *testing.T) {
	cache := NewCache(time.Hour)

	cache.Do("a", []string{"snapshot"}, func() (any, error) { return 1, nil })
	cache.Do("b", []string{"snapshot", "other"}, func() (any, error) { return 2, nil })
	cache.Do("c", []string{"other"}, func() (any, error) { return 3, nil })

	dropped := cache.Invalidate("snapshot")
	assert.Equal(t, 2, dropped)
	assert.Equal(t, 1, cache.Len())

	// The survivor is still served from cache.
	var recomputed bool
	value, _ := cache.Do("c", []string{"other"}, func() (any, error) {
		recomputed = true
		return -1, nil
	})
	assert.Equal(t, 3, value)
	assert.False(t, recomputed)

	assert.Equal(t, 0, cache.Invalidate("snapshot"), "tag is gone after invalidation")
}

func TestCleanupEvictsExpired(t *testing.T) {
	cache := NewCache(time.Millisecond)

	cache.Do("k", nil, func() (any, error) { return "v", nil })
	time.Sleep(5 * time.Millisecond)

	assert.Equal(t, 1, cache.Cleanup())
	assert.Equal(t, 0, cache.Len())
}

func TestZeroTTLNeverExpires(t *testing.T) {
	cache := NewCache(0)

	cache.Do("k", nil, func() (any, error) { return "v", nil })
	assert.Equal(t, 0, cache.Cleanup())
	assert.Equal(t, 1, cache.Len())
}
