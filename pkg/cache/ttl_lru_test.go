package cache_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/epreen/zimapp-web-sub001/pkg/cache"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func TestTTLCache_Basic(t *testing.T) {
	t.Parallel()

	t.Run("set and get", func(t *testing.T) {
		t.Parallel()
		c := cache.New[string, int](3)
		c.Set("a", 1, time.Minute)
		c.Set("b", 2, time.Minute)

		v, ok := c.Get("a")
		assert.True(t, ok)
		assert.Equal(t, 1, v)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		c := cache.New[string, int](3)
		v, ok := c.Get("nope")
		assert.False(t, ok)
		assert.Zero(t, v)
	})

	t.Run("overwrite refreshes value", func(t *testing.T) {
		t.Parallel()
		c := cache.New[string, int](3)
		c.Set("a", 1, time.Minute)
		c.Set("a", 5, time.Minute)
		v, _ := c.Get("a")
		assert.Equal(t, 5, v)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("non-positive ttl deletes", func(t *testing.T) {
		t.Parallel()
		c := cache.New[string, int](3)
		c.Set("a", 1, time.Minute)
		c.Set("a", 2, 0)
		_, ok := c.Get("a")
		assert.False(t, ok)
	})

	t.Run("panics on zero capacity", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { cache.New[string, int](0) })
	})
}

func TestTTLCache_Expiry(t *testing.T) {
	t.Parallel()

	clock := newClock()
	var evicted []string
	c := cache.New(10,
		cache.WithClock[string, int](clock.Now),
		cache.WithEvictCallback(func(k string, _ int) { evicted = append(evicted, k) }),
	)

	c.Set("short", 1, time.Second)
	c.Set("long", 2, time.Hour)

	clock.Advance(999 * time.Millisecond)
	_, ok := c.Get("short")
	assert.True(t, ok)

	clock.Advance(time.Millisecond)
	_, ok = c.Get("short")
	assert.False(t, ok, "entry expires exactly at its deadline")
	assert.Equal(t, []string{"short"}, evicted)

	v, ok := c.Get("long")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestTTLCache_LRUEviction(t *testing.T) {
	t.Parallel()

	c := cache.New[string, int](2)
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)
	c.Get("a")
	c.Set("c", 3, time.Minute)

	_, ok := c.Get("b")
	assert.False(t, ok, "least recently used entry is evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestTTLCache_RemoveAndClear(t *testing.T) {
	t.Parallel()

	var evicted int
	c := cache.New(5, cache.WithEvictCallback(func(string, int) { evicted++ }))
	c.Set("a", 1, time.Minute)
	c.Set("b", 2, time.Minute)
	c.Set("c", 3, time.Minute)

	assert.True(t, c.Remove("a"))
	assert.False(t, c.Remove("a"))
	c.Clear()

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 3, evicted)
}

func TestTTLCache_Concurrent(t *testing.T) {
	t.Parallel()

	c := cache.New[string, int](100)
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := range 100 {
				key := fmt.Sprintf("k%d", (i*j)%150)
				c.Set(key, j, time.Minute)
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 100)
}
