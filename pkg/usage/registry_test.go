package usage_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epreen/zimapp-web-sub001/pkg/cache"
	"github.com/epreen/zimapp-web-sub001/pkg/plan"
	"github.com/epreen/zimapp-web-sub001/pkg/usage"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time         { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func countingCounter(value int64) (usage.CounterFunc, *atomic.Int32) {
	var calls atomic.Int32
	return func(context.Context, string) (int64, error) {
		calls.Add(1)
		return value, nil
	}, &calls
}

func TestRegistry_NoCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	reg := usage.NewRegistry()
	fn, calls := countingCounter(7)
	reg.Register(plan.ResourceProducts, fn)

	n, err := reg.Count(ctx, "s1", plan.ResourceProducts)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
	_, _ = reg.Count(ctx, "s1", plan.ResourceProducts)
	assert.Equal(t, int32(2), calls.Load())

	assert.True(t, reg.Has(plan.ResourceProducts))
	assert.False(t, reg.Has(plan.ResourceVideoAds))

	_, err = reg.Count(ctx, "s1", plan.ResourceVideoAds)
	assert.ErrorIs(t, err, usage.ErrNoCounter)
	assert.NoError(t, reg.Invalidate(ctx, "s1", plan.ResourceProducts))
}

func TestRegistry_CounterError(t *testing.T) {
	t.Parallel()

	boom := errors.New("db down")
	reg := usage.NewRegistry(usage.WithCache(usage.NewMemoryCache(10), time.Minute))
	reg.Register(plan.ResourceVideoAds, func(context.Context, string) (int64, error) { return 0, boom })

	_, err := reg.Count(context.Background(), "s1", plan.ResourceVideoAds)
	assert.ErrorIs(t, err, usage.ErrCountFailed)
	assert.ErrorIs(t, err, boom)
}

func TestRegistry_MemoryCacheTTL(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clk := &clock{now: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)}

	c := usage.NewMemoryCache(100, cache.WithClock[string, int64](clk.Now))
	reg := usage.NewRegistry(usage.WithCache(c, 30*time.Second))
	fn, calls := countingCounter(3)
	reg.Register(plan.ResourceProducts, fn)

	for range 3 {
		n, err := reg.Count(ctx, "s1", plan.ResourceProducts)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	}
	assert.Equal(t, int32(1), calls.Load(), "served from cache within ttl")

	_, _ = reg.Count(ctx, "s2", plan.ResourceProducts)
	assert.Equal(t, int32(2), calls.Load(), "cache is keyed per actor")

	clk.Advance(30 * time.Second)
	_, _ = reg.Count(ctx, "s1", plan.ResourceProducts)
	assert.Equal(t, int32(3), calls.Load(), "expired snapshot is re-read")

	require.NoError(t, reg.Invalidate(ctx, "s1", plan.ResourceProducts))
	_, _ = reg.Count(ctx, "s1", plan.ResourceProducts)
	assert.Equal(t, int32(4), calls.Load(), "invalidate forces a re-read")
}

func TestRegistry_RedisCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	reg := usage.NewRegistry(usage.WithCache(usage.NewRedisCache(client, "usage:"), 10*time.Second))
	fn, calls := countingCounter(12)
	reg.Register(plan.ResourcePromoPushes, fn)

	n, err := reg.Count(ctx, "s1", plan.ResourcePromoPushes)
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)

	stored, err := mr.Get("usage:promo_pushes:s1")
	require.NoError(t, err)
	assert.Equal(t, "12", stored)
	assert.Equal(t, 10*time.Second, mr.TTL("usage:promo_pushes:s1"))

	_, _ = reg.Count(ctx, "s1", plan.ResourcePromoPushes)
	assert.Equal(t, int32(1), calls.Load())

	mr.FastForward(11 * time.Second)
	_, _ = reg.Count(ctx, "s1", plan.ResourcePromoPushes)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRegistry_CacheFailureFallsThrough(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	reg := usage.NewRegistry(usage.WithCache(usage.NewRedisCache(client, ""), time.Minute))
	fn, calls := countingCounter(5)
	reg.Register(plan.ResourceProducts, fn)

	n, err := reg.Count(ctx, "s1", plan.ResourceProducts)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRedisCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	c := usage.NewRedisCache(client, "p:")

	_, hit, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, mr.Set("p:corrupt", "not-a-number"))
	_, hit, err = c.Get(ctx, "corrupt")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "k", 9, time.Minute))
	v, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, int64(9), v)

	require.NoError(t, c.Set(ctx, "k", 1, 0))
	assert.False(t, mr.Exists("p:k"))
}

func TestNewCache(t *testing.T) {
	t.Parallel()

	c, err := usage.NewCache(usage.CacheConfig{Backend: "memory", Capacity: 5}, nil)
	require.NoError(t, err)
	assert.IsType(t, &usage.MemoryCache{}, c)

	_, err = usage.NewCache(usage.CacheConfig{Backend: "redis"}, nil)
	assert.ErrorIs(t, err, usage.ErrCacheUnavailable)

	c, err = usage.NewCache(usage.CacheConfig{Backend: "none"}, nil)
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = usage.NewCache(usage.CacheConfig{Backend: "memcached"}, nil)
	assert.ErrorIs(t, err, usage.ErrUnknownBackend)
}
