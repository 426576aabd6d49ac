package domain

import "errors"

var (
	// ErrJobNotFound is returned when a referenced job does not exist.
	ErrJobNotFound = errors.New("job not found")

	// ErrUserNotFound is returned when a referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrForbidden is returned when the caller does not own the job it is
	// trying to mutate. Distinct from ErrJobNotFound: the job exists.
	ErrForbidden = errors.New("caller does not own this job")

	// ErrJobTaken is returned when a worker tries to accept a job that
	// already has a worker bound.
	ErrJobTaken = errors.New("job already accepted by another worker")

	// ErrMissingClient is returned when a job record has no client linkage
	// and therefore cannot go through the acceptance flow.
	ErrMissingClient = errors.New("job has no client id")

	// ErrEmailTaken is returned on registration with an email that is
	// already in use.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned on login with a wrong email or
	// password.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
