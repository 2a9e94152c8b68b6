package gate

import (
	"context"
	"log/slog"

	"github.com/epreen/zimapp-web-sub001/pkg/entitlement"
	"github.com/epreen/zimapp-web-sub001/pkg/logger"
	"github.com/epreen/zimapp-web-sub001/pkg/plan"
)

// Counter reads the actor's current usage of a counted resource.
// usage.Registry satisfies it.
type Counter interface {
	Has(resource plan.Resource) bool
	Count(ctx context.Context, actorID string, resource plan.Resource) (int64, error)
}

// Gate evaluates attempted actions against plan ceilings.
type Gate struct {
	resolver *entitlement.Resolver
	counter  Counter
	metrics  *Metrics
	log      *slog.Logger
}

// Option configures a Gate.
type Option func(*Gate)

// WithCounter sets the usage counter consulted by Authorize.
func WithCounter(c Counter) Option {
	return func(g *Gate) {
		g.counter = c
	}
}

// WithMetrics records every decision on m.
func WithMetrics(m *Metrics) Option {
	return func(g *Gate) {
		g.metrics = m
	}
}

// WithLogger sets the logger for counter failures and denials.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gate) {
		g.log = l
	}
}

// New creates a gate. A nil resolver uses the compiled-in catalog.
func New(resolver *entitlement.Resolver, opts ...Option) *Gate {
	if resolver == nil {
		resolver = entitlement.NewResolver(nil)
	}
	g := &Gate{resolver: resolver}
	for _, opt := range opts {
		opt(g)
	}
	g.log = logger.OrDiscard(g.log).With(logger.Component("gate"))
	return g
}

// CheckUpload evaluates an upload against p's ceilings. The first failing
// check wins: file size, then duration, then product count.
func (g *Gate) CheckUpload(p plan.Plan, u Upload) Decision {
	limits, effective := g.resolver.LimitsFor(p)

	if l := limits.MaxFileSize; !l.IsUnlimited() && u.FileSize > int64(l) {
		return Decision{
			Reason:       ReasonFileSize,
			Message:      fileSizeMessage(effective, l),
			Plan:         effective,
			Limit:        l,
			CurrentCount: u.FileSize,
		}
	}

	if u.Duration != nil {
		if l := limits.MaxDuration; !l.IsUnlimited() && *u.Duration > int64(l) {
			return Decision{
				Reason:       ReasonDuration,
				Message:      durationMessage(effective, l),
				Plan:         effective,
				Limit:        l,
				CurrentCount: *u.Duration,
			}
		}
	}

	if u.ProductCount != nil {
		return g.checkCount(effective, limits, ActionProduct, *u.ProductCount)
	}

	return allow(effective)
}

// CheckQuota evaluates a counted action given the actor's current count.
// The action is denied once current has reached the ceiling.
func (g *Gate) CheckQuota(p plan.Plan, a Action, current int64) Decision {
	limits, effective := g.resolver.LimitsFor(p)
	return g.checkCount(effective, limits, a, current)
}

func (g *Gate) checkCount(p plan.Plan, limits plan.Limits, a Action, current int64) Decision {
	resource, ok := a.Resource()
	if !ok {
		return Decision{Reason: a.Reason(), Message: unverifiedMessage(a), Plan: p}
	}
	l := limits.Of(resource)
	if !l.IsUnlimited() && current >= int64(l) {
		return Decision{
			Reason:       a.Reason(),
			Message:      quotaMessage(a, p, l),
			Plan:         p,
			Limit:        l,
			CurrentCount: current,
		}
	}
	d := allow(p)
	d.Limit = l
	d.CurrentCount = current
	return d
}

// Authorize evaluates action a for actor. A count the caller supplied in
// u.ProductCount is used only when no Counter is registered for the
// resource; a registered counter always wins. It never fails open: if a
// count cannot be read the decision is a retryable deny.
func (g *Gate) Authorize(ctx context.Context, actor entitlement.Actor, a Action, u Upload) Decision {
	var reported *int64
	if a == ActionProduct {
		reported = u.ProductCount
	}
	d := g.authorize(ctx, actor, a, u, reported)
	g.record(ctx, actor, a, d)
	return d
}

// AuthorizeQuota evaluates a counted action. reported is the caller's own
// count and is used only when no Counter is registered for the resource.
func (g *Gate) AuthorizeQuota(ctx context.Context, actor entitlement.Actor, a Action, reported *int64) Decision {
	d := g.authorize(ctx, actor, a, Upload{ProductCount: reported}, reported)
	g.record(ctx, actor, a, d)
	return d
}

func (g *Gate) authorize(ctx context.Context, actor entitlement.Actor, a Action, u Upload, reported *int64) Decision {
	switch a {
	case ActionUpload:
		d := g.CheckUpload(actor.Plan, Upload{FileSize: u.FileSize, Duration: u.Duration})
		if !d.Allowed {
			return d
		}
		n, ok := g.currentCount(ctx, actor, plan.ResourceProducts, u.ProductCount)
		if !ok {
			return g.unverified(actor.Plan, ActionProduct)
		}
		if n == nil {
			return d
		}
		u.ProductCount = n
		return g.CheckUpload(actor.Plan, u)

	case ActionProduct, ActionVideoAd, ActionPromoPush:
		resource, _ := a.Resource()
		n, ok := g.currentCount(ctx, actor, resource, reported)
		if !ok || n == nil {
			return g.unverified(actor.Plan, a)
		}
		return g.CheckQuota(actor.Plan, a, *n)
	}

	_, effective := g.resolver.LimitsFor(actor.Plan)
	return Decision{Reason: a.Reason(), Message: unverifiedMessage(a), Plan: effective}
}

// currentCount prefers the registered counter over the reported count. It
// returns nil when neither is available and false when the counter failed.
func (g *Gate) currentCount(ctx context.Context, actor entitlement.Actor, resource plan.Resource, reported *int64) (*int64, bool) {
	if g.counter != nil && g.counter.Has(resource) {
		n, ok := g.count(ctx, actor, resource)
		if !ok {
			return nil, false
		}
		return &n, true
	}
	return reported, true
}

func (g *Gate) count(ctx context.Context, actor entitlement.Actor, resource plan.Resource) (int64, bool) {
	n, err := g.counter.Count(ctx, actor.ID, resource)
	if err != nil {
		g.log.WarnContext(ctx, "usage count unavailable",
			logger.ActorID(actor.ID),
			slog.String("resource", string(resource)),
			logger.Error(err),
		)
		if g.metrics != nil {
			g.metrics.counterErrors.WithLabelValues(string(resource)).Inc()
		}
		return 0, false
	}
	return n, true
}

func (g *Gate) unverified(p plan.Plan, a Action) Decision {
	limits, effective := g.resolver.LimitsFor(p)
	d := Decision{
		Reason:    a.Reason(),
		Message:   unverifiedMessage(a),
		Plan:      effective,
		Limit:     plan.Unlimited,
		Retryable: true,
	}
	if r, ok := a.Resource(); ok {
		d.Limit = limits.Of(r)
	}
	return d
}

func (g *Gate) record(ctx context.Context, actor entitlement.Actor, a Action, d Decision) {
	if g.metrics != nil {
		g.metrics.observe(a, d)
	}
	if !d.Allowed {
		g.log.DebugContext(ctx, "action denied",
			logger.ActorID(actor.ID),
			logger.Plan(d.Plan),
			slog.String("action", string(a)),
			logger.Reason(string(d.Reason)),
			slog.Bool("retryable", d.Retryable),
		)
	}
}
