package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// StripeConfig configures Stripe webhooks.
type StripeConfig struct {
	WebhookSecret string   `env:"STRIPE_WEBHOOK_SECRET"`
	Prices        PriceMap `env:"STRIPE_PRICE_PLANS" envSeparator:"," envKeyValSeparator:":"`
}

const stripeSignatureHeader = "Stripe-Signature"

// StripeProvider parses Stripe subscription events.
type StripeProvider struct {
	secret string
	prices PriceMap
}

// NewStripeProvider creates a Stripe webhook parser.
func NewStripeProvider(cfg StripeConfig) (*StripeProvider, error) {
	if cfg.WebhookSecret == "" {
		return nil, errors.Join(ErrMissingWebhookSecret, errors.New("STRIPE_WEBHOOK_SECRET"))
	}
	return &StripeProvider{secret: cfg.WebhookSecret, prices: cfg.Prices}, nil
}

// Name implements Provider.
func (p *StripeProvider) Name() string { return "stripe" }

// ParseWebhook implements Provider.
func (p *StripeProvider) ParseWebhook(_ context.Context, payload []byte, header http.Header) (Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, header.Get(stripeSignatureHeader), p.secret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		return Event{}, errors.Join(ErrWebhookVerificationFailed, err)
	}

	var slug string
	switch event.Type {
	case stripe.EventTypeCustomerSubscriptionCreated, stripe.EventTypeCustomerSubscriptionUpdated,
		stripe.EventTypeCustomerSubscriptionDeleted:
	default:
		return Event{}, errors.Join(ErrIgnoredEvent, fmt.Errorf("stripe event %q", event.Type))
	}

	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return Event{}, errors.Join(ErrInvalidPayload, err)
	}

	if event.Type == stripe.EventTypeCustomerSubscriptionDeleted || sub.Status == stripe.SubscriptionStatusCanceled {
		slug = cancelledSlug
	} else {
		var priceID string
		if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
			priceID = sub.Items.Data[0].Price.ID
		}
		slug = p.prices.slug(sub.Metadata[metadataPlanKey], priceID)
	}

	return Event{
		Provider:   p.Name(),
		ID:         event.ID,
		Type:       string(event.Type),
		ActorID:    sub.Metadata[metadataActorKey],
		PlanSlug:   slug,
		OccurredAt: time.Unix(event.Created, 0).UTC(),
	}, nil
}
