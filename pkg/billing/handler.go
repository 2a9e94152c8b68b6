package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/epreen/zimapp-web-sub001/pkg/entitlement"
	"github.com/epreen/zimapp-web-sub001/pkg/logger"
	"github.com/epreen/zimapp-web-sub001/pkg/plan"
)

// Status describes what Handle did with an event.
type Status string

const (
	StatusApplied   Status = "applied"
	StatusDuplicate Status = "duplicate"
	StatusIgnored   Status = "ignored"
	// StatusRejected marks events naming a plan the catalog does not know.
	StatusRejected Status = "rejected"
	// StatusStale marks events older than the stored assignment. They are
	// recorded but change nothing.
	StatusStale Status = "stale"
)

// Outcome is the result of handling one webhook.
type Outcome struct {
	Status Status                 `json:"status"`
	Event  Event                  `json:"-"`
	Change entitlement.RoleChange `json:"change,omitzero"`
	// Comparison lists what the plan change adds and takes away.
	Comparison *plan.Comparison `json:"comparison,omitempty"`
}

// ChangeFunc is called after a plan change has been stored.
type ChangeFunc func(ctx context.Context, actorID string, change entitlement.RoleChange)

// Handler applies provider plan changes to a RoleStore.
type Handler struct {
	providers map[string]Provider
	store     RoleStore
	catalog   *plan.Catalog
	onChange  []ChangeFunc
	log       *slog.Logger
	now       func() time.Time
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithProvider registers p under p.Name().
func WithProvider(p Provider) HandlerOption {
	return func(h *Handler) {
		h.providers[p.Name()] = p
	}
}

// WithCatalog sets the catalog used to describe plan changes.
func WithCatalog(c *plan.Catalog) HandlerOption {
	return func(h *Handler) {
		h.catalog = c
	}
}

// WithOnChange adds a callback run after each stored plan change.
func WithOnChange(fn ChangeFunc) HandlerOption {
	return func(h *Handler) {
		h.onChange = append(h.onChange, fn)
	}
}

// WithLogger sets the handler's logger.
func WithLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) {
		h.log = l
	}
}

// NewHandler creates a handler writing to store.
func NewHandler(store RoleStore, opts ...HandlerOption) *Handler {
	h := &Handler{
		providers: make(map[string]Provider),
		store:     store,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.catalog == nil {
		h.catalog = plan.Default()
	}
	h.log = logger.OrDiscard(h.log).With(logger.Component("billing"))
	return h
}

// Provider returns the provider registered under name and reports whether it exists.
func (h *Handler) Provider(name string) (Provider, bool) {
	p, ok := h.providers[name]
	return p, ok
}

// Handle verifies the webhook with the named provider and applies the plan
// change it carries. Events that carry no change, lack an actor, or name an
// unknown plan return a non-applied Outcome and a nil error so the provider
// does not redeliver them.
func (h *Handler) Handle(ctx context.Context, provider string, payload []byte, header http.Header) (Outcome, error) {
	p, ok := h.providers[provider]
	if !ok {
		return Outcome{}, errors.Join(ErrUnknownProvider, fmt.Errorf("provider %q", provider))
	}

	event, err := p.ParseWebhook(ctx, payload, header)
	if errors.Is(err, ErrIgnoredEvent) {
		h.log.DebugContext(ctx, "billing event ignored", logger.Provider(provider), logger.Error(err))
		return Outcome{Status: StatusIgnored}, nil
	}
	if err != nil {
		h.log.WarnContext(ctx, "billing webhook rejected", logger.Provider(provider), logger.Error(err))
		return Outcome{}, err
	}

	return h.Apply(ctx, event)
}

// Apply stores the plan change described by a verified event.
func (h *Handler) Apply(ctx context.Context, event Event) (Outcome, error) {
	log := h.log.With(
		logger.Provider(event.Provider),
		logger.EventType(event.Type),
		slog.String("event_id", event.ID),
		logger.ActorID(event.ActorID),
	)

	if event.ActorID == "" {
		log.WarnContext(ctx, "billing event has no actor")
		return Outcome{Status: StatusIgnored, Event: event}, nil
	}

	current, err := h.store.Get(ctx, event.ActorID)
	if err != nil && !errors.Is(err, ErrAssignmentNotFound) {
		return Outcome{}, err
	}
	if errors.Is(err, ErrAssignmentNotFound) {
		current = Assignment{ActorID: event.ActorID, Plan: plan.Free, Role: entitlement.RoleCustomer}
	}

	change, err := entitlement.RoleForPlanChange(current.Plan, event.PlanSlug)
	if errors.Is(err, entitlement.ErrUnrecognizedPlan) {
		log.WarnContext(ctx, "billing event names unknown plan", slog.String("slug", event.PlanSlug))
		return Outcome{Status: StatusRejected, Event: event}, nil
	}
	if err != nil {
		return Outcome{}, err
	}

	role := change.Role
	if current.Role == entitlement.RoleAdmin {
		role = entitlement.RoleAdmin
	}
	updatedAt := event.OccurredAt
	if updatedAt.IsZero() {
		updatedAt = h.now()
	}

	res, err := h.store.Apply(ctx, event.Provider, event.ID, Assignment{
		ActorID:   event.ActorID,
		Plan:      change.Target,
		Role:      role,
		UpdatedAt: updatedAt.UTC(),
	})
	if err != nil {
		log.ErrorContext(ctx, "failed to store plan change", logger.Error(err))
		return Outcome{}, err
	}
	switch res {
	case WriteDuplicate:
		log.InfoContext(ctx, "billing event already processed")
		return Outcome{Status: StatusDuplicate, Event: event}, nil
	case WriteStale:
		log.InfoContext(ctx, "billing event older than stored assignment",
			slog.Time("occurred_at", updatedAt), slog.Time("stored_at", current.UpdatedAt))
		return Outcome{Status: StatusStale, Event: event}, nil
	}

	cmp := h.catalog.Compare(change.Previous, change.Target)
	attrs := []any{
		slog.String("previous_plan", string(change.Previous)),
		logger.Plan(change.Target),
		logger.Role(role),
		slog.String("direction", string(change.Direction)),
	}
	if cmp != nil && cmp.HasDecreases() {
		attrs = append(attrs, slog.Any("lost_features", cmp.LostFeatures))
	}
	log.InfoContext(ctx, "plan changed", attrs...)

	for _, fn := range h.onChange {
		fn(ctx, event.ActorID, change)
	}
	return Outcome{Status: StatusApplied, Event: event, Change: change, Comparison: cmp}, nil
}
