package feature

import (
	"context"
	"errors"

	"github.com/epreen/zimapp-web-sub001/pkg/entitlement"
)

// Subject is what strategies target: the actor and the groups it belongs to.
type Subject struct {
	ActorID string
	Groups  []string
}

type subjectKey struct{}

// WithSubject stores s in ctx for strategy evaluation.
func WithSubject(ctx context.Context, s Subject) context.Context {
	return context.WithValue(ctx, subjectKey{}, s)
}

// SubjectFromContext returns the subject stored by WithSubject.
func SubjectFromContext(ctx context.Context) (Subject, bool) {
	s, ok := ctx.Value(subjectKey{}).(Subject)
	return s, ok
}

// Querier exposes a Provider as an entitlement.CapabilityQuerier.
// The actor's plan and role are offered to strategies as groups.
type Querier struct {
	provider Provider
}

// NewQuerier wraps provider.
func NewQuerier(provider Provider) *Querier {
	return &Querier{provider: provider}
}

// HasCapability reports whether an override flag named key is on for actor.
// A missing flag is not an error: it simply grants nothing.
func (q *Querier) HasCapability(ctx context.Context, actor entitlement.Actor, key string) (bool, error) {
	ctx = WithSubject(ctx, Subject{
		ActorID: actor.ID,
		Groups:  []string{string(actor.Plan), string(actor.Role)},
	})

	enabled, err := q.provider.IsEnabled(ctx, key)
	if errors.Is(err, ErrFlagNotFound) {
		return false, nil
	}
	return enabled, err
}

var _ entitlement.CapabilityQuerier = (*Querier)(nil)
