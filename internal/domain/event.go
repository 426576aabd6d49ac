package domain

import "time"

// Lifecycle event names published to the message exchange after a
// successful state transition.
const (
	EventJobCreated           = "job.created"
	EventJobAccepted          = "job.accepted"
	EventJobCancelled         = "job.cancelled"
	EventJobCancelledByClient = "job.cancelled-by-client"
	EventJobReactivated       = "job.reactivated"
	EventJobUpdated           = "job.updated"
)

// JobEvent is the wire form of a lifecycle event. Publishing is best-effort
// and the relay consumer is at-least-once, so EventID is the dedup key for
// downstream consumers.
type JobEvent struct {
	EventID    string    `json:"event_id"`
	Event      string    `json:"event"`
	JobID      string    `json:"job_id"`
	ActorID    string    `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
