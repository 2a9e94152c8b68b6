package dispatch

import "errors"

var (
	ErrFeatureNotEntitled = errors.New("actor is not entitled to this feature")
	ErrUnknownFeature     = errors.New("unknown feature")
	ErrEnqueueFailed      = errors.New("failed to enqueue job")
	ErrNilEnqueuer        = errors.New("enqueuer is nil")
	ErrAlreadyDispatched  = errors.New("every job for this idempotency key is already pending")
)
