package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sweeply/marketplace-be/internal/domain"
	"github.com/sweeply/marketplace-be/shared/postgresql"
)

// pqUniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const pqUniqueViolation = "23505"

// UserStore handles user persistence and the per-user notification inbox.
// The inbox is append-only: this store exposes insert and list only, so no
// code path can rewrite or drop an entry.
type UserStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewUserStore creates a new UserStore instance
func NewUserStore(pg *postgresql.Client, logger *slog.Logger) *UserStore {
	return &UserStore{
		db:     pg.GetDB(),
		logger: logger,
	}
}

// Create inserts a new user record
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (user_id, full_name, email, password_hash, role, created_at)
		VALUES (:user_id, :full_name, :email, :password_hash, :role, :created_at)
	`

	if _, err := s.db.NamedExecContext(ctx, query, user); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by id
func (s *UserStore) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	query := `
		SELECT user_id, full_name, email, password_hash, role, created_at
		FROM users
		WHERE user_id = $1`

	var user domain.User
	err := s.db.GetContext(ctx, &user, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetByEmail retrieves a user by email
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT user_id, full_name, email, password_hash, role, created_at
		FROM users
		WHERE email = $1`

	var user domain.User
	err := s.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

// AppendNotification appends one entry to the user's inbox
func (s *UserStore) AppendNotification(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (notification_id, user_id, message, job_id, worker_id, type, created_at)
		VALUES (:notification_id, :user_id, :message, :job_id, :worker_id, :type, :created_at)
	`

	if _, err := s.db.NamedExecContext(ctx, query, n); err != nil {
		return fmt.Errorf("failed to append notification: %w", err)
	}

	s.logger.Info("Notification appended to inbox",
		slog.String("user_id", n.UserID),
		slog.String("job_id", n.JobID),
		slog.String("type", n.Type),
	)

	return nil
}

// ListNotifications returns the user's inbox in append order
func (s *UserStore) ListNotifications(ctx context.Context, userID string) ([]domain.Notification, error) {
	query := `
		SELECT notification_id, user_id, message, job_id, worker_id, type, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at ASC`

	var notifications []domain.Notification
	err := s.db.SelectContext(ctx, &notifications, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return notifications, nil
}
