package relay

import "errors"

var (
	// ErrInvalidEvent is returned when an event record cannot be decoded
	// or fails validation. Such messages are never requeued.
	ErrInvalidEvent = errors.New("invalid event record")

	// ErrDuplicateEvent is returned when an event with the same event_id
	// has already been recorded. At-least-once delivery makes this an
	// expected outcome, not a failure.
	ErrDuplicateEvent = errors.New("event already recorded")
)

// RetryableError wraps transient errors that should trigger a requeue
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return "retryable error: " + e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// NewRetryableError creates a new retryable error
func NewRetryableError(err error) error {
	return &RetryableError{Err: err}
}
