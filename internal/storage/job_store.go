package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/sweeply/marketplace-be/internal/domain"
	"github.com/sweeply/marketplace-be/shared/postgresql"
)

const jobColumns = `
	job_id, client_id, worker_id, status, title, description,
	worker_quantity, price, size_garbage, type_of_garbage,
	cleaning_type, measurement_unit, location, created_at, updated_at`

// JobStore handles all job persistence
type JobStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewJobStore creates a new JobStore instance
func NewJobStore(pg *postgresql.Client, logger *slog.Logger) *JobStore {
	return &JobStore{
		db:     pg.GetDB(),
		logger: logger,
	}
}

// Create inserts a new job record
func (s *JobStore) Create(ctx context.Context, job *domain.Job) error {
	query := `
		INSERT INTO jobs (
			job_id, client_id, worker_id, status, title, description,
			worker_quantity, price, size_garbage, type_of_garbage,
			cleaning_type, measurement_unit, location, created_at, updated_at
		) VALUES (
			:job_id, :client_id, :worker_id, :status, :title, :description,
			:worker_quantity, :price, :size_garbage, :type_of_garbage,
			:cleaning_type, :measurement_unit, :location, :created_at, :updated_at
		)
	`

	if _, err := s.db.NamedExecContext(ctx, query, job); err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

// GetByID retrieves a job by its id
func (s *JobStore) GetByID(ctx context.Context, jobID string) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE job_id = $1`

	var job domain.Job
	err := s.db.GetContext(ctx, &job, query, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}

	return &job, nil
}

// Claim binds workerID to the job in a single conditional update. The
// write succeeds only while worker_id is still null, so under concurrent
// accepts exactly one caller wins; losers are told apart by a follow-up
// read (absent job vs. job already taken).
func (s *JobStore) Claim(ctx context.Context, jobID, workerID string) (*domain.Job, error) {
	query := `
		UPDATE jobs
		SET worker_id = $1,
		    status = $2,
		    updated_at = NOW()
		WHERE job_id = $3
		  AND worker_id IS NULL
		RETURNING ` + jobColumns

	var job domain.Job
	err := s.db.QueryRowxContext(ctx, query, workerID, domain.JobStatusInProgress, jobID).StructScan(&job)
	if err == nil {
		s.logger.Info("Job claimed",
			slog.String("job_id", jobID),
			slog.String("worker_id", workerID),
		)
		return &job, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to claim job: %w", err)
	}

	// Zero rows: either the job does not exist or another worker won.
	if _, getErr := s.GetByID(ctx, jobID); getErr != nil {
		return nil, getErr
	}

	s.logger.Warn("Failed to claim job - already taken",
		slog.String("job_id", jobID),
		slog.String("worker_id", workerID),
	)
	return nil, domain.ErrJobTaken
}

// Release clears the worker assignment and returns the job to pending
func (s *JobStore) Release(ctx context.Context, jobID string) (*domain.Job, error) {
	query := `
		UPDATE jobs
		SET worker_id = NULL,
		    status = $1,
		    updated_at = NOW()
		WHERE job_id = $2
		RETURNING ` + jobColumns

	var job domain.Job
	err := s.db.QueryRowxContext(ctx, query, domain.JobStatusPending, jobID).StructScan(&job)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to release job: %w", err)
	}

	return &job, nil
}

// SetStatus overwrites the job status
func (s *JobStore) SetStatus(ctx context.Context, jobID, status string) (*domain.Job, error) {
	query := `
		UPDATE jobs
		SET status = $1,
		    updated_at = NOW()
		WHERE job_id = $2
		RETURNING ` + jobColumns

	var job domain.Job
	err := s.db.QueryRowxContext(ctx, query, status, jobID).StructScan(&job)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to update job status: %w", err)
	}

	return &job, nil
}

// Patch merges the supplied fields into the job. Status is written
// verbatim when present; worker_id is never touched on this path.
func (s *JobStore) Patch(ctx context.Context, jobID string, patch domain.JobPatch) (*domain.Job, error) {
	if patch.IsEmpty() {
		return s.GetByID(ctx, jobID)
	}

	sets := []string{}
	args := []interface{}{}
	argIdx := 1

	addSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if patch.Title != nil {
		addSet("title", *patch.Title)
	}
	if patch.Description != nil {
		addSet("description", *patch.Description)
	}
	if patch.WorkerQuantity != nil {
		addSet("worker_quantity", *patch.WorkerQuantity)
	}
	if patch.Price != nil {
		addSet("price", *patch.Price)
	}
	if patch.SizeGarbage != nil {
		addSet("size_garbage", *patch.SizeGarbage)
	}
	if patch.TypeOfGarbage != nil {
		addSet("type_of_garbage", *patch.TypeOfGarbage)
	}
	if patch.CleaningType != nil {
		addSet("cleaning_type", *patch.CleaningType)
	}
	if patch.MeasurementUnit != nil {
		addSet("measurement_unit", *patch.MeasurementUnit)
	}
	if patch.Location != nil {
		addSet("location", *patch.Location)
	}
	if patch.Status != nil {
		addSet("status", *patch.Status)
	}

	query := fmt.Sprintf(
		`UPDATE jobs SET %s, updated_at = NOW() WHERE job_id = $%d RETURNING %s`,
		strings.Join(sets, ", "), argIdx, jobColumns,
	)
	args = append(args, jobID)

	var job domain.Job
	err := s.db.QueryRowxContext(ctx, query, args...).StructScan(&job)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to patch job: %w", err)
	}

	return &job, nil
}

// ListOpen returns jobs available for workers to accept
func (s *JobStore) ListOpen(ctx context.Context) ([]domain.Job, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE status NOT IN ($1, $2)
		ORDER BY created_at DESC`

	var jobs []domain.Job
	err := s.db.SelectContext(ctx, &jobs, query, domain.JobStatusInProgress, domain.JobStatusCancelledByClient)
	if err != nil {
		return nil, fmt.Errorf("failed to list open jobs: %w", err)
	}

	return jobs, nil
}

// ListByClient returns all jobs owned by the given client
func (s *JobStore) ListByClient(ctx context.Context, clientID string) ([]domain.Job, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE client_id = $1
		ORDER BY created_at DESC`

	var jobs []domain.Job
	err := s.db.SelectContext(ctx, &jobs, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs by client: %w", err)
	}

	return jobs, nil
}

// ListOwned returns the client's jobs with the assigned worker's display
// name resolved
func (s *JobStore) ListOwned(ctx context.Context, clientID string) ([]domain.OwnedJob, error) {
	query := `
		SELECT j.job_id, j.client_id, j.worker_id, j.status, j.title,
		       j.description, j.worker_quantity, j.price, j.size_garbage,
		       j.type_of_garbage, j.cleaning_type, j.measurement_unit,
		       j.location, j.created_at, j.updated_at,
		       w.full_name AS worker_name
		FROM jobs j
		LEFT JOIN users w ON w.user_id = j.worker_id
		WHERE j.client_id = $1
		ORDER BY j.created_at DESC`

	var jobs []domain.OwnedJob
	err := s.db.SelectContext(ctx, &jobs, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owned jobs: %w", err)
	}

	return jobs, nil
}

// ListAssigned returns the worker's jobs with the owning client's display
// name resolved
func (s *JobStore) ListAssigned(ctx context.Context, workerID string) ([]domain.AssignedJob, error) {
	query := `
		SELECT j.job_id, j.client_id, j.worker_id, j.status, j.title,
		       j.description, j.worker_quantity, j.price, j.size_garbage,
		       j.type_of_garbage, j.cleaning_type, j.measurement_unit,
		       j.location, j.created_at, j.updated_at,
		       c.full_name AS client_name
		FROM jobs j
		JOIN users c ON c.user_id = j.client_id
		WHERE j.worker_id = $1
		ORDER BY j.created_at DESC`

	var jobs []domain.AssignedJob
	err := s.db.SelectContext(ctx, &jobs, query, workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned jobs: %w", err)
	}

	return jobs, nil
}
