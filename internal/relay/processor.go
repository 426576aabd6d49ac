package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sweeply/marketplace-be/internal/domain"
)

// eventSink is the slice of EventStore the processor needs.
type eventSink interface {
	Insert(ctx context.Context, ev *domain.JobEvent) error
}

// Processor decodes event records and writes them to the audit store.
type Processor struct {
	store  eventSink
	logger *slog.Logger
}

// NewProcessor creates a new Processor instance
func NewProcessor(store eventSink, logger *slog.Logger) *Processor {
	return &Processor{
		store:  store,
		logger: logger,
	}
}

// Process handles a single raw message body. A nil return means the
// message can be acknowledged; duplicates count as handled.
func (p *Processor) Process(ctx context.Context, body []byte) error {
	var ev domain.JobEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}

	if ev.EventID == "" || ev.Event == "" || ev.JobID == "" {
		return fmt.Errorf("%w: missing required fields", ErrInvalidEvent)
	}

	err := p.store.Insert(ctx, &ev)
	if err != nil {
		if errors.Is(err, ErrDuplicateEvent) {
			p.logger.Debug("Event already recorded, skipping",
				slog.String("event_id", ev.EventID),
			)
			return nil
		}
		// Database errors are presumed transient.
		return NewRetryableError(fmt.Errorf("failed to record event: %w", err))
	}

	p.logger.Info("Event recorded",
		slog.String("event_id", ev.EventID),
		slog.String("event", ev.Event),
		slog.String("job_id", ev.JobID),
	)

	return nil
}

// shouldRequeue determines if a failed message should go back on the queue.
func shouldRequeue(err error) bool {
	if errors.Is(err, ErrInvalidEvent) {
		return false
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return true
	}

	// Default: don't requeue for unknown errors
	return false
}
