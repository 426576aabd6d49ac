// Package notify pushes lifecycle events to connected users. Delivery is
// fire-and-forget: one attempt, no retry, no receipt tracking. A user
// without a live connection simply misses the push; the durable inbox entry
// written by the lifecycle engine is the guaranteed channel.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/sweeply/marketplace-be/internal/presence"
)

// DefaultSendTimeout bounds a single delivery attempt when no timeout is
// configured. A hung connection must never stall the request that
// triggered the push.
const DefaultSendTimeout = 5 * time.Second

// Event is the payload pushed over a user's live connection.
type Event struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	JobID    string `json:"jobId"`
	WorkerID string `json:"workerId,omitempty"`
}

// Dispatcher delivers events to users' live connections.
type Dispatcher struct {
	registry    *presence.Registry
	logger      *slog.Logger
	sendTimeout time.Duration
}

// NewDispatcher creates a dispatcher over the given presence registry.
func NewDispatcher(registry *presence.Registry, logger *slog.Logger, sendTimeout time.Duration) *Dispatcher {
	if sendTimeout <= 0 {
		sendTimeout = DefaultSendTimeout
	}

	return &Dispatcher{
		registry:    registry,
		logger:      logger,
		sendTimeout: sendTimeout,
	}
}

// Dispatch pushes ev to userID's live connection if one exists. Returns
// whether the single delivery attempt succeeded. Failures are logged, never
// escalated: the caller must not treat a missed push as an error.
func (d *Dispatcher) Dispatch(ctx context.Context, userID string, ev Event) bool {
	conn, ok := d.registry.Lookup(userID)
	if !ok {
		d.logger.Warn("User has no live connection, skipping push",
			slog.String("user_id", userID),
			slog.String("event_type", ev.Type),
		)
		return false
	}

	body, err := json.Marshal(ev)
	if err != nil {
		d.logger.Error("Failed to encode event",
			slog.String("user_id", userID),
			slog.String("event_type", ev.Type),
			slog.Any("error", err),
		)
		return false
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	if err := conn.Send(sendCtx, body); err != nil {
		d.logger.Warn("Failed to push event to live connection",
			slog.String("user_id", userID),
			slog.String("event_type", ev.Type),
			slog.Any("error", err),
		)
		return false
	}

	d.logger.Debug("Event pushed to live connection",
		slog.String("user_id", userID),
		slog.String("event_type", ev.Type),
	)
	return true
}
