package entitlement

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/epreen/zimapp-web-sub001/pkg/billing"
	"github.com/epreen/zimapp-web-sub001/pkg/dispatch"
	"github.com/epreen/zimapp-web-sub001/pkg/entitlement"
	"github.com/epreen/zimapp-web-sub001/pkg/gate"
	"github.com/epreen/zimapp-web-sub001/pkg/logger"
	"github.com/epreen/zimapp-web-sub001/pkg/plan"
)

const (
	maxBodyBytes       = 1 << 20
	idempotencyKeyHdr  = "Idempotency-Key"
	statusDeniedAction = http.StatusPaymentRequired
)

type handlers struct {
	resolver   *entitlement.Resolver
	gate       *gate.Gate
	dispatcher *dispatch.Dispatcher
	billing    *billing.Handler
	log        *slog.Logger
}

type meResponse struct {
	ActorID  string           `json:"actor_id"`
	Role     entitlement.Role `json:"role"`
	Plan     plan.Plan        `json:"plan"`
	Features []plan.Feature   `json:"features"`
	Limits   plan.Limits      `json:"limits"`
}

// me reports the caller's resolved role, plan, effective features and limits.
// Features include capability overrides.
func (h *handlers) me(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	limits, _ := h.resolver.LimitsFor(actor.Plan)

	features := make([]plan.Feature, 0, len(plan.Features()))
	for _, f := range plan.Features() {
		if h.resolver.Can(r.Context(), actor, f) {
			features = append(features, f)
		}
	}

	writeData(w, r, h.log, http.StatusOK, meResponse{
		ActorID:  actor.ID,
		Role:     actor.Role,
		Plan:     actor.Plan,
		Features: features,
		Limits:   limits,
	})
}

func (h *handlers) checkUpload(w http.ResponseWriter, r *http.Request) {
	var u gate.Upload
	if !h.decode(w, r, &u, false) {
		return
	}
	if u.FileSize < 0 || (u.Duration != nil && *u.Duration < 0) || (u.ProductCount != nil && *u.ProductCount < 0) {
		writeError(w, r, h.log, http.StatusBadRequest, "invalid_request", "sizes and counts must not be negative")
		return
	}

	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	h.writeDecision(w, r, h.gate.Authorize(r.Context(), actor, gate.ActionUpload, u))
}

type quotaRequest struct {
	CurrentCount *int64 `json:"current_count,omitempty"`
}

func (h *handlers) checkQuota(w http.ResponseWriter, r *http.Request) {
	action, ok := gate.ParseAction(chi.URLParam(r, "action"))
	if !ok || action == gate.ActionUpload {
		writeError(w, r, h.log, http.StatusNotFound, "unknown_action", "")
		return
	}

	var req quotaRequest
	if !h.decode(w, r, &req, true) {
		return
	}
	if req.CurrentCount != nil && *req.CurrentCount < 0 {
		writeError(w, r, h.log, http.StatusBadRequest, "invalid_request", "current_count must not be negative")
		return
	}

	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	h.writeDecision(w, r, h.gate.AuthorizeQuota(r.Context(), actor, action, req.CurrentCount))
}

// actor returns the authenticated actor or answers 401 when there is none.
func (h *handlers) actor(w http.ResponseWriter, r *http.Request) (entitlement.Actor, bool) {
	a, err := entitlement.RequireActor(r.Context())
	if err != nil {
		h.log.WarnContext(r.Context(), "handler reached without actor", logger.Error(err))
		writeError(w, r, h.log, http.StatusUnauthorized, "unauthorized", "")
		return entitlement.Actor{}, false
	}
	return a, true
}

func (h *handlers) writeDecision(w http.ResponseWriter, r *http.Request, d gate.Decision) {
	status := http.StatusOK
	switch {
	case d.Retryable:
		status = http.StatusServiceUnavailable
	case !d.Allowed:
		status = statusDeniedAction
	}
	writeData(w, r, h.log, status, d)
}

type completeResponse struct {
	Feature plan.Feature      `json:"feature"`
	Jobs    []dispatch.Result `json:"jobs"`
}

func (h *handlers) completeFeature(w http.ResponseWriter, r *http.Request) {
	f, ok := plan.ParseFeature(chi.URLParam(r, "feature"))
	if !ok {
		writeError(w, r, h.log, http.StatusNotFound, "unknown_feature", "")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, r, h.log, http.StatusRequestEntityTooLarge, "body_too_large", "")
		return
	}
	var data json.RawMessage
	if len(body) > 0 {
		if !json.Valid(body) {
			writeError(w, r, h.log, http.StatusBadRequest, "invalid_json", "")
			return
		}
		data = body
	}

	var opts []dispatch.DispatchOption
	if key := r.Header.Get(idempotencyKeyHdr); key != "" {
		opts = append(opts, dispatch.WithIdempotencyKey(key))
	}

	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	results, err := h.dispatcher.Dispatch(r.Context(), actor, f, data, opts...)
	switch {
	case err == nil:
		writeData(w, r, h.log, http.StatusAccepted, completeResponse{Feature: f, Jobs: results})
	case errors.Is(err, dispatch.ErrFeatureNotEntitled):
		writeError(w, r, h.log, http.StatusForbidden, "feature_not_entitled",
			"Your plan does not include "+string(f)+".")
	case errors.Is(err, dispatch.ErrAlreadyDispatched):
		writeError(w, r, h.log, http.StatusConflict, "already_dispatched", "")
	default:
		h.log.ErrorContext(r.Context(), "feature dispatch failed", logger.Feature(f), logger.Error(err))
		writeError(w, r, h.log, http.StatusInternalServerError, "dispatch_failed", "")
	}
}

func (h *handlers) webhook(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	if _, ok := h.billing.Provider(provider); !ok {
		writeError(w, r, h.log, http.StatusNotFound, "unknown_provider", "")
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, r, h.log, http.StatusRequestEntityTooLarge, "body_too_large", "")
		return
	}

	out, err := h.billing.Handle(r.Context(), provider, payload, r.Header)
	switch {
	case err == nil:
		writeData(w, r, h.log, http.StatusOK, out)
	case errors.Is(err, billing.ErrWebhookVerificationFailed):
		writeError(w, r, h.log, http.StatusUnauthorized, "invalid_signature", "")
	case errors.Is(err, billing.ErrInvalidPayload):
		writeError(w, r, h.log, http.StatusBadRequest, "invalid_payload", "")
	default:
		h.log.ErrorContext(r.Context(), "webhook processing failed", logger.Provider(provider), logger.Error(err))
		writeError(w, r, h.log, http.StatusInternalServerError, "webhook_failed", "")
	}
}

// decode reads a JSON body into v. Empty bodies are accepted when optional.
func (h *handlers) decode(w http.ResponseWriter, r *http.Request, v any, optional bool) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	err := dec.Decode(v)
	if err == nil || (optional && errors.Is(err, io.EOF)) {
		return true
	}
	writeError(w, r, h.log, http.StatusBadRequest, "invalid_json", err.Error())
	return false
}
