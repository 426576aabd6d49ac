package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweeply/marketplace-be/internal/domain"
)

func TestTokenService_SignAndVerify(t *testing.T) {
	svc := NewTokenService("test-secret", "marketplace-api", time.Hour)

	token, err := svc.Sign("user-1", domain.RoleWorker)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	principal, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", principal.ID)
	assert.Equal(t, domain.RoleWorker, principal.Role)
}

func TestTokenService_VerifyFailures(t *testing.T) {
	svc := NewTokenService("test-secret", "marketplace-api", time.Hour)

	valid, err := svc.Sign("user-1", domain.RoleClient)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{
			name:    "garbage token",
			token:   "not-a-token",
			wantErr: ErrInvalidToken,
		},
		{
			name:    "too many segments",
			token:   valid + ".extra",
			wantErr: ErrInvalidToken,
		},
		{
			name:    "tampered payload",
			token:   "eyJzdWIiOiJhdHRhY2tlciJ9." + strings.Split(valid, ".")[1],
			wantErr: ErrInvalidToken,
		},
		{
			name:    "tampered signature",
			token:   strings.Split(valid, ".")[0] + ".AAAA",
			wantErr: ErrInvalidToken,
		},
		{
			name:    "empty token",
			token:   "",
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTokenService_WrongSecretRejected(t *testing.T) {
	issuer := NewTokenService("secret-a", "marketplace-api", time.Hour)
	verifier := NewTokenService("secret-b", "marketplace-api", time.Hour)

	token, err := issuer.Sign("user-1", domain.RoleClient)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_ExpiredToken(t *testing.T) {
	svc := NewTokenService("test-secret", "marketplace-api", -time.Minute)

	token, err := svc.Sign("user-1", domain.RoleClient)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, CheckPassword(hash, "wrong password"))
	assert.False(t, CheckPassword("not-a-hash", "anything"))
}
