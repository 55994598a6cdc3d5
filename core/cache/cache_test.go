package cache_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botguard/botguard/core/cache"
)

func TestCache_SetGet(t *testing.T) {
	t.Parallel()

	c := cache.New[string, int](10)

	prev, existed := c.Set("a", 1, time.Minute)
	assert.False(t, existed)
	assert.Zero(t, prev)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	prev, existed = c.Set("a", 2, time.Minute)
	assert.True(t, existed)
	assert.Equal(t, 1, prev)

	v, ok = c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestCache_MissingKey(t *testing.T) {
	t.Parallel()

	c := cache.New[string, int](10)
	_, ok := c.Get("missing")
	assert.False(t, ok)
}

func TestCache_LRUEviction(t *testing.T) {
	t.Parallel()

	c := cache.New[string, int](2)
	c.Set("a", 1, 0)
	c.Set("b", 2, 0)
	c.Set("c", 3, 0) // evicts "a" (LRU)

	_, ok := c.Get("a")
	assert.False(t, ok, "a should have been evicted")

	_, ok = c.Get("b")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Size())
}

func TestCache_GetPromotesToMRU(t *testing.T) {
	t.Parallel()

	c := cache.New[string, int](2)
	c.Set("a", 1, 0)
	c.Set("b", 2, 0)

	// touch "a" so it becomes MRU; "b" becomes LRU and is evicted next.
	_, _ = c.Get("a")
	c.Set("c", 3, 0)

	_, ok := c.Get("b")
	assert.False(t, ok, "b should have been evicted, not a")
	_, ok = c.Get("a")
	assert.True(t, ok)
}

func TestCache_TTLExpiry(t *testing.T) {
	t.Parallel()

	c := cache.New[string, int](10)
	c.Set("a", 1, 10*time.Millisecond)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	time.Sleep(20 * time.Millisecond)

	_, ok = c.Get("a")
	assert.False(t, ok, "entry should have expired")
	assert.Equal(t, 0, c.Size(), "expired entry should be evicted on access")
}

func TestCache_ZeroTTLNeverExpires(t *testing.T) {
	t.Parallel()

	c := cache.New[string, int](10)
	c.Set("a", 1, 0)
	time.Sleep(10 * time.Millisecond)

	_, ok := c.Get("a")
	assert.True(t, ok)
}

func TestCache_Sweep(t *testing.T) {
	t.Parallel()

	c := cache.New[string, int](10)
	c.Set("a", 1, 10*time.Millisecond)
	c.Set("b", 2, time.Hour)

	time.Sleep(20 * time.Millisecond)

	removed := c.Sweep(time.Now())
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, c.Size())

	_, ok := c.Get("b")
	assert.True(t, ok)
}

func TestCache_Delete(t *testing.T) {
	t.Parallel()

	c := cache.New[string, int](10)
	c.Set("a", 1, 0)

	v, ok := c.Delete("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Delete("a")
	assert.False(t, ok)
}

func TestCache_Keys_MRUOrder(t *testing.T) {
	t.Parallel()

	c := cache.New[string, int](10)
	c.Set("a", 1, 0)
	c.Set("b", 2, 0)
	c.Set("c", 3, 0)
	_, _ = c.Get("a") // promote a to MRU

	assert.Equal(t, []string{"a", "c", "b"}, c.Keys())
}

func TestCache_Clear(t *testing.T) {
	t.Parallel()

	c := cache.New[string, int](10)
	c.Set("a", 1, 0)
	c.Set("b", 2, 0)

	evicted := map[string]int{}
	c.OnEvict(func(key string, value int, reason cache.EvictReason) {
		evicted[key] = value
		assert.Equal(t, cache.EvictCleared, reason)
	})

	c.Clear()
	assert.Equal(t, 0, c.Size())
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, evicted)
}

func TestCache_EvictCallback_LRU(t *testing.T) {
	t.Parallel()

	c := cache.New[string, int](1)
	var gotKey string
	var gotReason cache.EvictReason
	c.OnEvict(func(key string, value int, reason cache.EvictReason) {
		gotKey = key
		gotReason = reason
	})

	c.Set("a", 1, 0)
	c.Set("b", 2, 0)

	assert.Equal(t, "a", gotKey)
	assert.Equal(t, cache.EvictLRU, gotReason)
}

func TestCache_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	c := cache.New[int, int](100)
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Set(i, i, time.Minute)
			c.Get(i)
			c.Size()
			c.Keys()
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Size(), 100)
}

// invariant property: |cache| <= maxSize always (spec.md §8 property 5).
func TestCache_SizeNeverExceedsMax(t *testing.T) {
	t.Parallel()

	c := cache.New[int, int](5)
	for i := range 100 {
		c.Set(i, i, 0)
		assert.LessOrEqual(t, c.Size(), 5)
	}
}
