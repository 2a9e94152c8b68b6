package gate

import (
	"github.com/epreen/zimapp-web-sub001/pkg/plan"
)

// Reason names the ceiling that denied an action. Empty means allowed.
type Reason string

const (
	ReasonNone           Reason = ""
	ReasonFileSize       Reason = "file_size"
	ReasonDuration       Reason = "duration"
	ReasonProductLimit   Reason = "product_limit"
	ReasonVideoAdLimit   Reason = "video_ad_limit"
	ReasonPromoPushLimit Reason = "promo_push_limit"
)

// Decision is the outcome of a gate check.
type Decision struct {
	Allowed bool      `json:"allowed"`
	Reason  Reason    `json:"reason,omitempty"`
	Message string    `json:"message,omitempty"`
	Plan    plan.Plan `json:"plan"`
	// Limit is the ceiling that produced the decision; plan.Unlimited when none applied.
	Limit plan.Limit `json:"limit"`
	// CurrentCount is the observed value compared against Limit.
	CurrentCount int64 `json:"current_count"`
	// Retryable marks denials caused by an unavailable counter rather than a ceiling.
	Retryable bool `json:"retryable,omitempty"`
}

func allow(p plan.Plan) Decision {
	return Decision{Allowed: true, Plan: p, Limit: plan.Unlimited}
}

// Action is a gated operation.
type Action string

const (
	ActionUpload    Action = "upload"
	ActionProduct   Action = "product"
	ActionVideoAd   Action = "video_ad"
	ActionPromoPush Action = "promo_push"
)

// Actions returns every gated action.
func Actions() []Action {
	return []Action{ActionUpload, ActionProduct, ActionVideoAd, ActionPromoPush}
}

// ParseAction validates value against the closed set of actions.
func ParseAction(value string) (Action, bool) {
	a := Action(value)
	switch a {
	case ActionUpload, ActionProduct, ActionVideoAd, ActionPromoPush:
		return a, true
	}
	return "", false
}

// Resource returns the counted resource behind a quota action.
func (a Action) Resource() (plan.Resource, bool) {
	switch a {
	case ActionProduct, ActionUpload:
		return plan.ResourceProducts, true
	case ActionVideoAd:
		return plan.ResourceVideoAds, true
	case ActionPromoPush:
		return plan.ResourcePromoPushes, true
	}
	return "", false
}

// Reason returns the denial reason reported when the action's count ceiling is hit.
func (a Action) Reason() Reason {
	switch a {
	case ActionVideoAd:
		return ReasonVideoAdLimit
	case ActionPromoPush:
		return ReasonPromoPushLimit
	}
	return ReasonProductLimit
}

// Upload describes an attempted media upload.
type Upload struct {
	FileSize int64 `json:"file_size"`
	// Duration in seconds; nil for non-media files.
	Duration *int64 `json:"duration,omitempty"`
	// ProductCount is the seller's current product count; nil skips the product
	// check. Authorize ignores it when a Counter is registered for products.
	ProductCount *int64 `json:"product_count,omitempty"`
}
