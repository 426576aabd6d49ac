// Package lifecycle implements the job state machine: how a job moves
// between creation, acceptance, cancellation, and reactivation, and which
// side effects each transition triggers.
package lifecycle

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sweeply/marketplace-be/internal/domain"
	"github.com/sweeply/marketplace-be/internal/notify"
)

// JobStore is the job persistence contract the engine depends on.
type JobStore interface {
	Create(ctx context.Context, job *domain.Job) error
	GetByID(ctx context.Context, jobID string) (*domain.Job, error)
	Claim(ctx context.Context, jobID, workerID string) (*domain.Job, error)
	Release(ctx context.Context, jobID string) (*domain.Job, error)
	SetStatus(ctx context.Context, jobID, status string) (*domain.Job, error)
	Patch(ctx context.Context, jobID string, patch domain.JobPatch) (*domain.Job, error)
	ListOpen(ctx context.Context) ([]domain.Job, error)
	ListByClient(ctx context.Context, clientID string) ([]domain.Job, error)
	ListOwned(ctx context.Context, clientID string) ([]domain.OwnedJob, error)
	ListAssigned(ctx context.Context, workerID string) ([]domain.AssignedJob, error)
}

// UserStore is the user persistence contract the engine depends on.
type UserStore interface {
	GetByID(ctx context.Context, userID string) (*domain.User, error)
	AppendNotification(ctx context.Context, n *domain.Notification) error
}

// Dispatcher pushes an event to a user's live connection, best-effort.
type Dispatcher interface {
	Dispatch(ctx context.Context, userID string, ev notify.Event) bool
}

// EventPublisher relays lifecycle events to the message exchange.
type EventPublisher interface {
	PublishWithRetry(ctx context.Context, body []byte, contentType string) error
}

// CreateJobInput carries the client-supplied fields of a new job. All of
// them are opaque to the lifecycle logic.
type CreateJobInput struct {
	Title           string
	Description     string
	WorkerQuantity  int
	Price           float64
	SizeGarbage     string
	TypeOfGarbage   string
	CleaningType    string
	MeasurementUnit string
	Location        string
}

// Engine orchestrates job state transitions, enforces ownership and
// precondition guards, and triggers notification side effects.
type Engine struct {
	jobs       JobStore
	users      UserStore
	dispatcher Dispatcher
	events     EventPublisher
	logger     *slog.Logger
}

// NewEngine creates a lifecycle engine. events may be nil, in which case
// transition events are not relayed.
func NewEngine(jobs JobStore, users UserStore, dispatcher Dispatcher, events EventPublisher, logger *slog.Logger) *Engine {
	return &Engine{
		jobs:       jobs,
		users:      users,
		dispatcher: dispatcher,
		events:     events,
		logger:     logger,
	}
}

// CreateJob creates a new pending job owned by the caller.
func (e *Engine) CreateJob(ctx context.Context, caller domain.Principal, in CreateJobInput) (*domain.Job, error) {
	now := time.Now()
	job := &domain.Job{
		JobID:           uuid.New().String(),
		ClientID:        caller.ID,
		Status:          domain.JobStatusPending,
		Title:           in.Title,
		Description:     in.Description,
		WorkerQuantity:  in.WorkerQuantity,
		Price:           in.Price,
		SizeGarbage:     in.SizeGarbage,
		TypeOfGarbage:   in.TypeOfGarbage,
		CleaningType:    in.CleaningType,
		MeasurementUnit: in.MeasurementUnit,
		Location:        in.Location,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := e.jobs.Create(ctx, job); err != nil {
		return nil, err
	}

	e.logger.Info("Job created",
		slog.String("job_id", job.JobID),
		slog.String("client_id", job.ClientID),
	)

	e.publishEvent(ctx, domain.EventJobCreated, job.JobID, caller.ID)
	return job, nil
}

// AcceptJob binds the calling worker as the job's sole executor. The claim
// is a single conditional write at the store, so of N concurrent accepts
// exactly one succeeds; the rest get ErrJobTaken.
//
// Side effects after a won claim, in order: resolve the owning client,
// push a live notification (best-effort, never fatal), append a durable
// inbox entry. A failure partway leaves the claim in place; there is no
// compensating rollback.
func (e *Engine) AcceptJob(ctx context.Context, caller domain.Principal, jobID string) (*domain.Job, error) {
	job, err := e.jobs.Claim(ctx, jobID, caller.ID)
	if err != nil {
		return nil, err
	}

	if job.ClientID == "" {
		return nil, domain.ErrMissingClient
	}

	client, err := e.users.GetByID(ctx, job.ClientID)
	if err != nil {
		return nil, err
	}

	e.dispatcher.Dispatch(ctx, client.UserID, notify.Event{
		Type:     "jobAccepted",
		Message:  fmt.Sprintf("The job %q has been accepted and is now in progress.", job.Title),
		JobID:    job.JobID,
		WorkerID: caller.ID,
	})

	notification := &domain.Notification{
		NotificationID: uuid.New().String(),
		UserID:         client.UserID,
		Message:        fmt.Sprintf("Your job %q has been started.", job.Title),
		JobID:          job.JobID,
		WorkerID:       sql.NullString{String: caller.ID, Valid: true},
		Type:           domain.NotificationTypeJob,
		CreatedAt:      time.Now(),
	}

	if err := e.users.AppendNotification(ctx, notification); err != nil {
		// The claim stands; the client misses the durable entry. Surfaced
		// so the caller knows the accept flow did not fully complete.
		return nil, fmt.Errorf("job accepted but inbox write failed: %w", err)
	}

	e.logger.Info("Job accepted",
		slog.String("job_id", job.JobID),
		slog.String("worker_id", caller.ID),
		slog.String("client_id", client.UserID),
	)

	e.publishEvent(ctx, domain.EventJobAccepted, job.JobID, caller.ID)
	return job, nil
}

// CancelJob releases the worker assignment and returns the job to pending.
// Any authenticated caller may do this; there is no ownership check on the
// release path.
func (e *Engine) CancelJob(ctx context.Context, caller domain.Principal, jobID string) (*domain.Job, error) {
	job, err := e.jobs.Release(ctx, jobID)
	if err != nil {
		return nil, err
	}

	e.logger.Info("Job released",
		slog.String("job_id", job.JobID),
		slog.String("caller_id", caller.ID),
	)

	e.publishEvent(ctx, domain.EventJobCancelled, job.JobID, caller.ID)
	return job, nil
}

// CancelOrder cancels the caller's own job.
func (e *Engine) CancelOrder(ctx context.Context, caller domain.Principal, jobID string) (*domain.Job, error) {
	if err := e.checkOwnership(ctx, caller, jobID); err != nil {
		return nil, err
	}

	job, err := e.jobs.SetStatus(ctx, jobID, domain.JobStatusCancelledByClient)
	if err != nil {
		return nil, err
	}

	e.logger.Info("Job cancelled by client",
		slog.String("job_id", job.JobID),
		slog.String("client_id", caller.ID),
	)

	e.publishEvent(ctx, domain.EventJobCancelledByClient, job.JobID, caller.ID)
	return job, nil
}

// ReactivateJob returns the caller's own job to pending, regardless of its
// current status.
func (e *Engine) ReactivateJob(ctx context.Context, caller domain.Principal, jobID string) (*domain.Job, error) {
	if err := e.checkOwnership(ctx, caller, jobID); err != nil {
		return nil, err
	}

	job, err := e.jobs.SetStatus(ctx, jobID, domain.JobStatusPending)
	if err != nil {
		return nil, err
	}

	e.logger.Info("Job reactivated",
		slog.String("job_id", job.JobID),
		slog.String("client_id", caller.ID),
	)

	e.publishEvent(ctx, domain.EventJobReactivated, job.JobID, caller.ID)
	return job, nil
}

// UpdateJob merges the supplied fields into the caller's own job. Status
// is merged verbatim when present; no transition validation happens here.
func (e *Engine) UpdateJob(ctx context.Context, caller domain.Principal, jobID string, patch domain.JobPatch) (*domain.Job, error) {
	if err := e.checkOwnership(ctx, caller, jobID); err != nil {
		return nil, err
	}

	job, err := e.jobs.Patch(ctx, jobID, patch)
	if err != nil {
		return nil, err
	}

	e.logger.Info("Job updated",
		slog.String("job_id", job.JobID),
		slog.String("client_id", caller.ID),
	)

	e.publishEvent(ctx, domain.EventJobUpdated, job.JobID, caller.ID)
	return job, nil
}

// GetJobs returns jobs open for acceptance: anything not in progress and
// not cancelled by its client.
func (e *Engine) GetJobs(ctx context.Context) ([]domain.Job, error) {
	return e.jobs.ListOpen(ctx)
}

// GetJobByID returns a single job.
func (e *Engine) GetJobByID(ctx context.Context, jobID string) (*domain.Job, error) {
	return e.jobs.GetByID(ctx, jobID)
}

// GetJobsByClientID returns all jobs owned by the given client.
func (e *Engine) GetJobsByClientID(ctx context.Context, clientID string) ([]domain.Job, error) {
	return e.jobs.ListByClient(ctx, clientID)
}

// GetClientJobs returns the caller's jobs with worker names resolved.
func (e *Engine) GetClientJobs(ctx context.Context, caller domain.Principal) ([]domain.OwnedJob, error) {
	return e.jobs.ListOwned(ctx, caller.ID)
}

// GetMyJobs returns jobs assigned to the caller with client names resolved.
func (e *Engine) GetMyJobs(ctx context.Context, caller domain.Principal) ([]domain.AssignedJob, error) {
	return e.jobs.ListAssigned(ctx, caller.ID)
}

// checkOwnership loads the job and verifies the caller owns it. A missing
// job reports not-found; a mismatched owner reports forbidden, which is a
// distinct failure.
func (e *Engine) checkOwnership(ctx context.Context, caller domain.Principal, jobID string) error {
	job, err := e.jobs.GetByID(ctx, jobID)
	if err != nil {
		return err
	}

	if job.ClientID != caller.ID {
		return domain.ErrForbidden
	}

	return nil
}

// publishEvent relays a lifecycle transition to the message exchange.
// Best-effort: a publish failure is logged and never fails the operation
// that triggered it.
func (e *Engine) publishEvent(ctx context.Context, event, jobID, actorID string) {
	if e.events == nil {
		return
	}

	body, err := json.Marshal(domain.JobEvent{
		EventID:    uuid.New().String(),
		Event:      event,
		JobID:      jobID,
		ActorID:    actorID,
		OccurredAt: time.Now(),
	})
	if err != nil {
		e.logger.Error("Failed to encode lifecycle event",
			slog.String("event", event),
			slog.String("job_id", jobID),
			slog.Any("error", err),
		)
		return
	}

	if err := e.events.PublishWithRetry(ctx, body, "application/json"); err != nil {
		e.logger.Warn("Failed to relay lifecycle event",
			slog.String("event", event),
			slog.String("job_id", jobID),
			slog.Any("error", err),
		)
	}
}
