package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sweeply/marketplace-be/internal/domain"
)

// writeError maps a service error to an HTTP status and JSON body.
// Unknown errors are logged and reported as a generic 500 so storage
// details never leak to clients.
func writeError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrJobNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to modify this job"})
	case errors.Is(err, domain.ErrJobTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Job has already been accepted"})
	case errors.Is(err, domain.ErrMissingClient):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Job has no client associated"})
	case errors.Is(err, domain.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is already registered"})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	default:
		logger.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
