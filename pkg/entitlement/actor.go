package entitlement

import (
	"context"
	"log/slog"

	"github.com/epreen/zimapp-web-sub001/pkg/plan"
)

// Actor is the resolved identity a request acts as.
type Actor struct {
	ID   string    `json:"id"`
	Plan plan.Plan `json:"plan"`
	Role Role      `json:"role"`
}

// Anonymous is the least privileged actor.
func Anonymous() Actor {
	return Actor{Plan: plan.Free, Role: RoleCustomer}
}

type actorContextKey struct{}

// WithActor stores a in ctx.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, a)
}

// ActorFromContext returns the actor stored by WithActor.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	a, ok := ctx.Value(actorContextKey{}).(Actor)
	return a, ok
}

// RequireActor is ActorFromContext for handlers behind Middleware. It returns
// ErrNoActor when the request was not authenticated.
func RequireActor(ctx context.Context) (Actor, error) {
	a, ok := ActorFromContext(ctx)
	if !ok {
		return Actor{}, ErrNoActor
	}
	return a, nil
}

// LoggerExtractor adds the actor ID and plan to log records written with a request context.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		a, ok := ActorFromContext(ctx)
		if !ok || a.ID == "" {
			return slog.Attr{}, false
		}
		return slog.Group("actor", slog.String("id", a.ID), slog.String("plan", string(a.Plan))), true
	}
}
