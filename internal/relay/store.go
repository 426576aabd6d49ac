package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sweeply/marketplace-be/internal/domain"
	"github.com/sweeply/marketplace-be/shared/postgresql"
)

// EventStore persists lifecycle events into the job_events audit table.
type EventStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewEventStore creates a new EventStore instance
func NewEventStore(client *postgresql.Client, logger *slog.Logger) *EventStore {
	return &EventStore{
		db:     client.GetDB(),
		logger: logger,
	}
}

// Insert records a lifecycle event. The primary key on event_id makes the
// write idempotent: replays surface as ErrDuplicateEvent.
func (s *EventStore) Insert(ctx context.Context, ev *domain.JobEvent) error {
	query := `
		INSERT INTO job_events (event_id, event, job_id, actor_id, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.db.ExecContext(ctx, query, ev.EventID, ev.Event, ev.JobID, ev.ActorID, ev.OccurredAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateEvent
		}
		return fmt.Errorf("failed to insert event: %w", err)
	}

	return nil
}
