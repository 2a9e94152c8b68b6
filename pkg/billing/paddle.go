package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"
)

// PaddleConfig configures Paddle Billing webhooks.
type PaddleConfig struct {
	WebhookSecret string   `env:"PADDLE_WEBHOOK_SECRET"`
	Prices        PriceMap `env:"PADDLE_PRICE_PLANS" envSeparator:"," envKeyValSeparator:":"`
}

const paddleSignatureHeader = "Paddle-Signature"

// PaddleProvider parses Paddle Billing subscription notifications.
type PaddleProvider struct {
	verifier *paddle.WebhookVerifier
	prices   PriceMap
}

// NewPaddleProvider creates a Paddle webhook parser.
func NewPaddleProvider(cfg PaddleConfig) (*PaddleProvider, error) {
	if cfg.WebhookSecret == "" {
		return nil, errors.Join(ErrMissingWebhookSecret, errors.New("PADDLE_WEBHOOK_SECRET"))
	}
	return &PaddleProvider{
		verifier: paddle.NewWebhookVerifier(cfg.WebhookSecret),
		prices:   cfg.Prices,
	}, nil
}

// Name implements Provider.
func (p *PaddleProvider) Name() string { return "paddle" }

type paddleNotification struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       struct {
		ID         string            `json:"id"`
		Status     string            `json:"status"`
		CustomData map[string]string `json:"custom_data"`
		Items      []struct {
			Price struct {
				ID string `json:"id"`
			} `json:"price"`
		} `json:"items"`
	} `json:"data"`
}

// ParseWebhook implements Provider.
func (p *PaddleProvider) ParseWebhook(ctx context.Context, payload []byte, header http.Header) (Event, error) {
	// The SDK verifier works on requests, so rebuild one around the payload.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "/webhooks/paddle", bytes.NewReader(payload))
	if err != nil {
		return Event{}, errors.Join(ErrInvalidPayload, err)
	}
	req.Header.Set(paddleSignatureHeader, header.Get(paddleSignatureHeader))

	valid, err := p.verifier.Verify(req)
	if err != nil {
		return Event{}, errors.Join(ErrWebhookVerificationFailed, err)
	}
	if !valid {
		return Event{}, ErrWebhookVerificationFailed
	}

	var n paddleNotification
	if err := json.Unmarshal(payload, &n); err != nil {
		return Event{}, errors.Join(ErrInvalidPayload, err)
	}

	var slug string
	switch n.EventType {
	case "subscription.created", "subscription.activated", "subscription.updated", "subscription.resumed":
		if n.Data.Status == "canceled" {
			slug = cancelledSlug
			break
		}
		var priceID string
		if len(n.Data.Items) > 0 {
			priceID = n.Data.Items[0].Price.ID
		}
		slug = p.prices.slug(n.Data.CustomData[metadataPlanKey], priceID)
	case "subscription.canceled":
		slug = cancelledSlug
	default:
		return Event{}, errors.Join(ErrIgnoredEvent, fmt.Errorf("paddle event %q", n.EventType))
	}

	return Event{
		Provider:   p.Name(),
		ID:         n.EventID,
		Type:       n.EventType,
		ActorID:    n.Data.CustomData[metadataActorKey],
		PlanSlug:   slug,
		OccurredAt: n.OccurredAt,
	}, nil
}
