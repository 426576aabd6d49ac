package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sweeply/marketplace-be/internal/api/dto"
	"github.com/sweeply/marketplace-be/internal/auth"
	"github.com/sweeply/marketplace-be/internal/domain"
)

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	user := &domain.User{
		UserID:       uuid.New().String(),
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		CreatedAt:    time.Now(),
	}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		writeError(c, h.logger, err)
		return
	}

	h.logger.Info("user registered", "user_id", user.UserID, "role", user.Role)
	c.JSON(http.StatusCreated, dto.ProfileResponse{
		UserID:   user.UserID,
		FullName: user.FullName,
		Email:    user.Email,
		Role:     user.Role,
	})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		// A missing account and a wrong password read the same to the caller.
		if errors.Is(err, domain.ErrUserNotFound) {
			err = domain.ErrInvalidCredentials
		}
		writeError(c, h.logger, err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		writeError(c, h.logger, domain.ErrInvalidCredentials)
		return
	}

	token, err := h.tokens.Sign(user.UserID, user.Role)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		AccessToken: token,
		UserID:      user.UserID,
		FullName:    user.FullName,
		Email:       user.Email,
		Role:        user.Role,
	})
}

// Profile handles GET /auth/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), caller.ID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProfileResponse{
		UserID:   user.UserID,
		FullName: user.FullName,
		Email:    user.Email,
		Role:     user.Role,
	})
}

// GetNotifications handles GET /notifications, the caller's inbox in
// append order.
func (h *AuthHandler) GetNotifications(c *gin.Context) {
	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	notifications, err := h.users.ListNotifications(c.Request.Context(), caller.ID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromNotifications(notifications))
}

// Connect handles GET /ws, upgrading the request to a live notification
// channel for the authenticated user.
func (h *WSHandler) Connect(c *gin.Context) {
	caller, ok := mustPrincipal(c)
	if !ok {
		return
	}

	if err := h.gateway.Handle(c.Writer, c.Request, caller.ID); err != nil {
		h.logger.Warn("websocket upgrade failed", "user_id", caller.ID, "error", err)
		// The upgrade writes its own response on failure.
		c.Abort()
		return
	}
	c.Abort()
}
