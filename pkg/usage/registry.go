package usage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/epreen/zimapp-web-sub001/pkg/logger"
	"github.com/epreen/zimapp-web-sub001/pkg/plan"
)

// CounterFunc returns how many units of a resource actorID currently holds.
type CounterFunc func(ctx context.Context, actorID string) (int64, error)

// Registry maps counted resources to their counters, optionally through a snapshot cache.
// It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	counters map[plan.Resource]CounterFunc
	cache    Cache
	ttl      time.Duration
	log      *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithCache serves counts from c for up to ttl. A nil cache or non-positive ttl disables caching.
func WithCache(c Cache, ttl time.Duration) Option {
	return func(r *Registry) {
		r.cache = c
		r.ttl = ttl
	}
}

// WithLogger sets the logger used for cache failures.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// NewRegistry creates an empty Registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{counters: make(map[plan.Resource]CounterFunc)}
	for _, opt := range opts {
		opt(r)
	}
	r.log = logger.OrDiscard(r.log).With(logger.Component("usage"))
	return r
}

// Register installs fn as the counter for resource, replacing any previous one.
func (r *Registry) Register(resource plan.Resource, fn CounterFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters[resource] = fn
}

// Has reports whether a counter is registered for resource.
func (r *Registry) Has(resource plan.Resource) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.counters[resource]
	return ok
}

// Count returns actorID's current usage of resource. Cache failures are
// logged and bypassed; counter failures are returned wrapped in ErrCountFailed.
func (r *Registry) Count(ctx context.Context, actorID string, resource plan.Resource) (int64, error) {
	r.mu.RLock()
	fn, ok := r.counters[resource]
	r.mu.RUnlock()
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNoCounter, resource)
	}

	key := cacheKey(actorID, resource)
	if r.cacheEnabled() {
		v, hit, err := r.cache.Get(ctx, key)
		switch {
		case err != nil:
			r.log.WarnContext(ctx, "usage cache read failed", logger.ActorID(actorID), logger.Error(err))
		case hit:
			return v, nil
		}
	}

	n, err := fn(ctx, actorID)
	if err != nil {
		return 0, errors.Join(ErrCountFailed, err)
	}

	if r.cacheEnabled() {
		if err := r.cache.Set(ctx, key, n, r.ttl); err != nil {
			r.log.WarnContext(ctx, "usage cache write failed", logger.ActorID(actorID), logger.Error(err))
		}
	}
	return n, nil
}

// Invalidate drops the cached snapshot so the next Count reads the counter.
// Call it after the actor creates or removes a counted resource.
func (r *Registry) Invalidate(ctx context.Context, actorID string, resource plan.Resource) error {
	if !r.cacheEnabled() {
		return nil
	}
	return r.cache.Delete(ctx, cacheKey(actorID, resource))
}

func (r *Registry) cacheEnabled() bool {
	return r.cache != nil && r.ttl > 0
}

func cacheKey(actorID string, resource plan.Resource) string {
	return string(resource) + ":" + actorID
}
