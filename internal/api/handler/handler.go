package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sweeply/marketplace-be/internal/auth"
	"github.com/sweeply/marketplace-be/internal/domain"
	"github.com/sweeply/marketplace-be/internal/lifecycle"
)

// JobService is the slice of the lifecycle engine the job handlers use.
type JobService interface {
	CreateJob(ctx context.Context, caller domain.Principal, in lifecycle.CreateJobInput) (*domain.Job, error)
	AcceptJob(ctx context.Context, caller domain.Principal, jobID string) (*domain.Job, error)
	CancelJob(ctx context.Context, caller domain.Principal, jobID string) (*domain.Job, error)
	CancelOrder(ctx context.Context, caller domain.Principal, jobID string) (*domain.Job, error)
	ReactivateJob(ctx context.Context, caller domain.Principal, jobID string) (*domain.Job, error)
	UpdateJob(ctx context.Context, caller domain.Principal, jobID string, patch domain.JobPatch) (*domain.Job, error)
	GetJobs(ctx context.Context) ([]domain.Job, error)
	GetJobByID(ctx context.Context, jobID string) (*domain.Job, error)
	GetJobsByClientID(ctx context.Context, clientID string) ([]domain.Job, error)
	GetClientJobs(ctx context.Context, caller domain.Principal) ([]domain.OwnedJob, error)
	GetMyJobs(ctx context.Context, caller domain.Principal) ([]domain.AssignedJob, error)
}

// UserService is the slice of user storage the auth handlers use.
type UserService interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ListNotifications(ctx context.Context, userID string) ([]domain.Notification, error)
}

// Gateway upgrades an authenticated request to a live connection.
type Gateway interface {
	Handle(w http.ResponseWriter, r *http.Request, userID string) error
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger  *slog.Logger
	Jobs    JobService
	Users   UserService
	Tokens  *auth.TokenService
	Gateway Gateway
}

// JobHandler handles job-related HTTP requests
type JobHandler struct {
	logger *slog.Logger
	jobs   JobService
}

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	return &JobHandler{
		logger: deps.Logger,
		jobs:   deps.Jobs,
	}
}

// AuthHandler handles registration, login, profile, and inbox requests
type AuthHandler struct {
	logger *slog.Logger
	users  UserService
	tokens *auth.TokenService
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(deps *Dependencies) *AuthHandler {
	return &AuthHandler{
		logger: deps.Logger,
		users:  deps.Users,
		tokens: deps.Tokens,
	}
}

// WSHandler hands authenticated requests to the WebSocket gateway
type WSHandler struct {
	logger  *slog.Logger
	gateway Gateway
}

// NewWSHandler creates a new WSHandler instance
func NewWSHandler(deps *Dependencies) *WSHandler {
	return &WSHandler{
		logger:  deps.Logger,
		gateway: deps.Gateway,
	}
}
