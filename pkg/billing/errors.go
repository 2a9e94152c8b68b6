package billing

import "errors"

var (
	ErrUnknownProvider           = errors.New("billing: unknown provider")
	ErrWebhookVerificationFailed = errors.New("billing: webhook signature verification failed")
	ErrInvalidPayload            = errors.New("billing: invalid webhook payload")
	ErrIgnoredEvent              = errors.New("billing: event does not change a plan")
	ErrMissingWebhookSecret      = errors.New("billing: webhook secret is required")
	ErrAssignmentNotFound        = errors.New("billing: role assignment not found")
	ErrStoreFailed               = errors.New("billing: role store failed")
)
