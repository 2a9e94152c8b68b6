package usage

import "errors"

var (
	ErrNoCounter        = errors.New("usage: no counter registered for resource")
	ErrCountFailed      = errors.New("usage: failed to count resource")
	ErrCacheUnavailable = errors.New("usage: cache unavailable")
	ErrUnknownBackend   = errors.New("usage: unknown cache backend")
)
