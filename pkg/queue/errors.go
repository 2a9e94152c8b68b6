package queue

import "errors"

var (
	// ErrRepositoryNil is returned when a nil repository is provided
	ErrRepositoryNil = errors.New("repository cannot be nil")

	// ErrPayloadNil is returned when attempting to enqueue a nil payload
	ErrPayloadNil = errors.New("payload cannot be nil")

	// ErrPayloadMarshal is returned when payload marshaling fails
	ErrPayloadMarshal = errors.New("failed to marshal payload to JSON")

	// ErrTaskCreate is returned when task creation in storage fails
	ErrTaskCreate = errors.New("failed to create task in storage")

	// ErrInvalidPriority is returned when priority is outside valid range
	ErrInvalidPriority = errors.New("priority must be between 0 and 100")

	// ErrDuplicateTask is returned by storages when a task with the same ID
	// or the same pending dedup key already exists.
	ErrDuplicateTask = errors.New("task already enqueued")
)
