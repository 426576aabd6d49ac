package domain

import (
	"database/sql"
	"time"
)

// User role constants
const (
	RoleClient = "client"
	RoleWorker = "worker"
)

// User represents a registered client or worker.
type User struct {
	UserID       string    `db:"user_id" json:"_id"`
	FullName     string    `db:"full_name" json:"fullName"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	ID   string
	Role string
}

// Notification is one durable inbox entry for a user. The inbox is
// append-only: entries are written by the lifecycle engine and never
// updated, removed, or reordered by it.
type Notification struct {
	NotificationID string         `db:"notification_id" json:"notificationId"`
	UserID         string         `db:"user_id" json:"userId"`
	Message        string         `db:"message" json:"message"`
	JobID          string         `db:"job_id" json:"jobId"`
	WorkerID       sql.NullString `db:"worker_id" json:"workerId,omitempty"`
	Type           string         `db:"type" json:"type"`
	CreatedAt      time.Time      `db:"created_at" json:"createdAt"`
}

// NotificationTypeJob tags inbox entries produced by job lifecycle
// transitions.
const NotificationTypeJob = "job"
