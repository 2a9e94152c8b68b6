package billing

import (
	"context"
	"net/http"
	"time"
)

// Event is a verified plan change reported by a payment provider.
type Event struct {
	Provider   string
	ID         string
	Type       string
	ActorID    string
	PlanSlug   string
	OccurredAt time.Time
}

// Provider verifies and decodes one payment provider's webhooks.
type Provider interface {
	Name() string
	// ParseWebhook returns ErrWebhookVerificationFailed for bad signatures,
	// ErrInvalidPayload for undecodable bodies and ErrIgnoredEvent for
	// events that carry no plan change.
	ParseWebhook(ctx context.Context, payload []byte, header http.Header) (Event, error)
}

// PriceMap maps provider price IDs to plan slugs.
type PriceMap map[string]string

// metadataPlanKey is the custom-data key a checkout may set to name the plan directly.
const metadataPlanKey = "plan"

// metadataActorKey is the custom-data key carrying the seller's actor ID.
const metadataActorKey = "actor_id"

// cancelledSlug is the plan an actor falls back to when a subscription ends.
const cancelledSlug = "free"

// slug picks the plan slug for an event. Explicit metadata wins, then the
// price map. An unmapped price ID is returned as-is so the caller rejects
// it as an unrecognised plan.
func (m PriceMap) slug(explicit, priceID string) string {
	if explicit != "" {
		return explicit
	}
	if s, ok := m[priceID]; ok {
		return s
	}
	return priceID
}
