package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweeply/marketplace-be/internal/auth"
	"github.com/sweeply/marketplace-be/internal/domain"
)

type stubUserService struct {
	users         map[string]*domain.User
	createErr     error
	notifications []domain.Notification
	listErr       error
}

func (s *stubUserService) Create(_ context.Context, user *domain.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	if s.users == nil {
		s.users = make(map[string]*domain.User)
	}
	s.users[user.UserID] = user
	return nil
}

func (s *stubUserService) GetByID(_ context.Context, userID string) (*domain.User, error) {
	u, ok := s.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *stubUserService) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *stubUserService) ListNotifications(_ context.Context, _ string) ([]domain.Notification, error) {
	return s.notifications, s.listErr
}

func testAuthHandler(users *stubUserService) *AuthHandler {
	return NewAuthHandler(&Dependencies{
		Logger: slog.New(slog.DiscardHandler),
		Users:  users,
		Tokens: auth.NewTokenService("test-secret", "marketplace", time.Hour),
	})
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("creates account and omits password", func(t *testing.T) {
		users := &stubUserService{}
		h := testAuthHandler(users)

		c, w := newTestContext(t, http.MethodPost, "/auth/register",
			`{"fullName":"Lan Pham","email":"lan@example.com","password":"supersecret","role":"client"}`)

		h.Register(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NotContains(t, w.Body.String(), "supersecret")

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Lan Pham", resp["fullName"])
		assert.Equal(t, "client", resp["role"])

		created, err := users.GetByEmail(c.Request.Context(), "lan@example.com")
		require.NoError(t, err)
		assert.NotEqual(t, "supersecret", created.PasswordHash)
	})

	t.Run("rejects short password", func(t *testing.T) {
		h := testAuthHandler(&stubUserService{})

		c, w := newTestContext(t, http.MethodPost, "/auth/register",
			`{"fullName":"Lan Pham","email":"lan@example.com","password":"short","role":"client"}`)

		h.Register(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		h := testAuthHandler(&stubUserService{})

		c, w := newTestContext(t, http.MethodPost, "/auth/register",
			`{"fullName":"Lan Pham","email":"lan@example.com","password":"supersecret","role":"admin"}`)

		h.Register(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("maps duplicate email to bad request", func(t *testing.T) {
		h := testAuthHandler(&stubUserService{createErr: domain.ErrEmailTaken})

		c, w := newTestContext(t, http.MethodPost, "/auth/register",
			`{"fullName":"Lan Pham","email":"lan@example.com","password":"supersecret","role":"client"}`)

		h.Register(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "already registered")
	})
}

func TestAuthHandler_Login(t *testing.T) {
	hash, err := auth.HashPassword("supersecret")
	require.NoError(t, err)

	users := &stubUserService{users: map[string]*domain.User{
		"user-1": {
			UserID:       "user-1",
			FullName:     "Lan Pham",
			Email:        "lan@example.com",
			PasswordHash: hash,
			Role:         domain.RoleClient,
		},
	}}

	t.Run("returns token for valid credentials", func(t *testing.T) {
		h := testAuthHandler(users)

		c, w := newTestContext(t, http.MethodPost, "/auth/login",
			`{"email":"lan@example.com","password":"supersecret"}`)

		h.Login(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "user-1", resp["_id"])

		token, _ := resp["access_token"].(string)
		require.NotEmpty(t, token)

		principal, err := h.tokens.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", principal.ID)
		assert.Equal(t, domain.RoleClient, principal.Role)
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		h := testAuthHandler(users)

		c, w := newTestContext(t, http.MethodPost, "/auth/login",
			`{"email":"lan@example.com","password":"wrong-password"}`)

		h.Login(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown email reads like wrong password", func(t *testing.T) {
		h := testAuthHandler(users)

		c, w := newTestContext(t, http.MethodPost, "/auth/login",
			`{"email":"nobody@example.com","password":"supersecret"}`)

		h.Login(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid email or password")
	})
}

func TestAuthHandler_Profile(t *testing.T) {
	users := &stubUserService{users: map[string]*domain.User{
		"user-1": {UserID: "user-1", FullName: "Lan Pham", Email: "lan@example.com", Role: domain.RoleClient},
	}}
	h := testAuthHandler(users)

	t.Run("returns caller profile", func(t *testing.T) {
		c, w := newTestContext(t, http.MethodGet, "/auth/profile", "")
		SetPrincipal(c, domain.Principal{ID: "user-1", Role: domain.RoleClient})

		h.Profile(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "lan@example.com")
	})

	t.Run("requires authentication", func(t *testing.T) {
		c, w := newTestContext(t, http.MethodGet, "/auth/profile", "")

		h.Profile(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_GetNotifications(t *testing.T) {
	users := &stubUserService{notifications: []domain.Notification{
		{NotificationID: "n-1", UserID: "user-1", Message: `Your job "A" has been started.`, JobID: "job-1", Type: domain.NotificationTypeJob, CreatedAt: time.Now().Add(-time.Minute)},
		{NotificationID: "n-2", UserID: "user-1", Message: `Your job "B" has been started.`, JobID: "job-2", Type: domain.NotificationTypeJob, CreatedAt: time.Now()},
	}}
	h := testAuthHandler(users)

	c, w := newTestContext(t, http.MethodGet, "/notifications", "")
	SetPrincipal(c, domain.Principal{ID: "user-1", Role: domain.RoleClient})

	h.GetNotifications(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "n-1", resp[0]["notificationId"])
	assert.Equal(t, "n-2", resp[1]["notificationId"])
}
