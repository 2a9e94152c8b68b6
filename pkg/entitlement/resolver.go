package entitlement

import (
	"context"
	"log/slog"

	"github.com/epreen/zimapp-web-sub001/pkg/logger"
	"github.com/epreen/zimapp-web-sub001/pkg/plan"
)

// CapabilityQuerier answers whether an external system grants actor a
// capability regardless of plan. Keys are feature identifiers.
type CapabilityQuerier interface {
	HasCapability(ctx context.Context, actor Actor, key string) (bool, error)
}

// CapabilityQuerierFunc adapts a function to CapabilityQuerier.
type CapabilityQuerierFunc func(ctx context.Context, actor Actor, key string) (bool, error)

func (f CapabilityQuerierFunc) HasCapability(ctx context.Context, actor Actor, key string) (bool, error) {
	return f(ctx, actor, key)
}

// Claims is the untrusted bundle entitlement is resolved from.
// Role and Plan keep whatever type the issuer put on the wire.
type Claims struct {
	Subject string `json:"sub"`
	Role    any    `json:"role,omitempty"`
	Plan    any    `json:"plan,omitempty"`
}

// Entitlement is the resolved view of what an actor holds.
type Entitlement struct {
	Actor    Actor          `json:"actor"`
	Features []plan.Feature `json:"features"`
	Limits   plan.Limits    `json:"limits"`
}

// Resolver answers entitlement questions against a plan catalog.
// It is safe for concurrent use.
type Resolver struct {
	catalog *plan.Catalog
	querier CapabilityQuerier
	log     *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithCapabilityQuerier installs the override source consulted by Can.
func WithCapabilityQuerier(q CapabilityQuerier) ResolverOption {
	return func(r *Resolver) { r.querier = q }
}

// WithLogger sets the logger used for querier failures.
func WithLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) { r.log = l }
}

// NewResolver creates a Resolver over catalog. A nil catalog uses plan.Default().
func NewResolver(catalog *plan.Catalog, opts ...ResolverOption) *Resolver {
	if catalog == nil {
		catalog = plan.Default()
	}
	r := &Resolver{catalog: catalog}
	for _, opt := range opts {
		opt(r)
	}
	r.log = logger.OrDiscard(r.log).With(logger.Component("entitlement"))
	return r
}

// Catalog returns the catalog the resolver reads from.
func (r *Resolver) Catalog() *plan.Catalog {
	return r.catalog
}

// Resolve derives the actor and its entitlement from claims. It never fails.
// The role follows the explicit role claim when present and valid, otherwise
// it is derived from the resolved plan.
func (r *Resolver) Resolve(claims Claims) Entitlement {
	p := ResolvePlan(claims.Plan)
	if !r.catalog.IsKnownPlan(string(p)) {
		p = plan.Free
	}

	role := RoleForPlan(p)
	if s, ok := claims.Role.(string); ok && Role(s).Valid() {
		role = Role(s)
	}

	limits, _ := r.catalog.LimitsFor(p)
	return Entitlement{
		Actor:    Actor{ID: claims.Subject, Plan: p, Role: role},
		Features: r.catalog.FeaturesFor(p),
		Limits:   limits,
	}
}

// HasFeature reports whether plan p unlocks f. Unknown plans unlock nothing.
func (r *Resolver) HasFeature(p plan.Plan, f plan.Feature) bool {
	return r.catalog.Has(p, f)
}

// LimitsFor returns the ceilings for p, falling back to plan.Free for unknown plans.
func (r *Resolver) LimitsFor(p plan.Plan) (plan.Limits, plan.Plan) {
	if limits, ok := r.catalog.LimitsFor(p); ok {
		return limits, p
	}
	limits, _ := r.catalog.LimitsFor(plan.Free)
	return limits, plan.Free
}

// HasFeatureWithOverride is the dual-source check: an explicit grant wins,
// otherwise the plan's feature set decides.
func (r *Resolver) HasFeatureWithOverride(explicit bool, p plan.Plan, f plan.Feature) bool {
	return explicit || r.HasFeature(p, f)
}

// Can reports whether actor may use f. The capability querier is asked first
// and short-circuits on a grant; errors from it are logged and treated as no
// grant.
func (r *Resolver) Can(ctx context.Context, actor Actor, f plan.Feature) bool {
	if !f.Valid() {
		return false
	}
	return r.HasFeatureWithOverride(r.override(ctx, actor, f), actor.Plan, f)
}

func (r *Resolver) override(ctx context.Context, actor Actor, f plan.Feature) bool {
	if r.querier == nil {
		return false
	}
	granted, err := r.querier.HasCapability(ctx, actor, string(f))
	if err != nil {
		r.log.WarnContext(ctx, "capability query failed, using plan features",
			logger.ActorID(actor.ID),
			logger.Feature(f),
			logger.Error(err),
		)
		return false
	}
	return granted
}
