package usage

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/epreen/zimapp-web-sub001/pkg/cache"
)

// Cache stores usage snapshots. A miss is (0, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) (int64, bool, error)
	Set(ctx context.Context, key string, value int64, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CacheConfig selects and sizes the snapshot cache.
type CacheConfig struct {
	Backend   string        `env:"USAGE_CACHE_BACKEND" envDefault:"memory"` // memory, redis or none
	TTL       time.Duration `env:"USAGE_CACHE_TTL" envDefault:"30s"`
	Capacity  int           `env:"USAGE_CACHE_CAPACITY" envDefault:"10000"`
	KeyPrefix string        `env:"USAGE_CACHE_PREFIX" envDefault:"usage:"`
}

// NewCache builds the backend named by cfg. The redis client is only
// required for the redis backend. "none" returns a nil Cache.
func NewCache(cfg CacheConfig, client redis.UniversalClient) (Cache, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryCache(cfg.Capacity), nil
	case "redis":
		if client == nil {
			return nil, errors.Join(ErrCacheUnavailable, errors.New("redis client is nil"))
		}
		return NewRedisCache(client, cfg.KeyPrefix), nil
	case "none":
		return nil, nil
	}
	return nil, ErrUnknownBackend
}

// MemoryCache keeps snapshots in a bounded per-process TTL-LRU.
type MemoryCache struct {
	c *cache.TTLCache[string, int64]
}

// NewMemoryCache creates a cache holding at most capacity snapshots.
// Non-positive capacity defaults to 10000.
func NewMemoryCache(capacity int, opts ...cache.Option[string, int64]) *MemoryCache {
	if capacity <= 0 {
		capacity = 10_000
	}
	return &MemoryCache{c: cache.New(capacity, opts...)}
}

func (m *MemoryCache) Get(_ context.Context, key string) (int64, bool, error) {
	v, ok := m.c.Get(key)
	return v, ok, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value int64, ttl time.Duration) error {
	m.c.Set(key, value, ttl)
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.c.Remove(key)
	return nil
}

// RedisCache shares snapshots between replicas through Redis string keys
// that expire with the snapshot TTL.
type RedisCache struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisCache stores keys under prefix.
func NewRedisCache(client redis.UniversalClient, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

func (r *RedisCache) Get(ctx context.Context, key string) (int64, bool, error) {
	raw, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errors.Join(ErrCacheUnavailable, err)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// corrupt entry, treat as a miss so the counter repopulates it
		return 0, false, nil
	}
	return v, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value int64, ttl time.Duration) error {
	if ttl <= 0 {
		return r.Delete(ctx, key)
	}
	if err := r.client.Set(ctx, r.prefix+key, value, ttl).Err(); err != nil {
		return errors.Join(ErrCacheUnavailable, err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return errors.Join(ErrCacheUnavailable, err)
	}
	return nil
}
