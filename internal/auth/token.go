// Package auth issues and verifies the bearer tokens that turn a request
// into an authenticated Principal.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/sweeply/marketplace-be/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims is the signed payload of an access token.
type Claims struct {
	Subject   string `json:"sub"`
	Role      string `json:"role"`
	Issuer    string `json:"iss,omitempty"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// TokenService mints and verifies HMAC-SHA256 signed tokens of the form
// base64url(claims) + "." + base64url(signature).
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenService creates a token service.
func NewTokenService(secret string, issuer string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

// Sign issues a token for the given user.
func (s *TokenService) Sign(userID, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		Subject:   userID,
		Role:      role,
		Issuer:    s.issuer,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.ttl).Unix(),
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", err
	}

	encoded := base64.RawURLEncoding.EncodeToString(payload)
	return encoded + "." + s.signature(encoded), nil
}

// Verify checks the token signature and expiry and returns the principal
// it carries.
func (s *TokenService) Verify(token string) (domain.Principal, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return domain.Principal{}, ErrInvalidToken
	}

	if !hmac.Equal([]byte(parts[1]), []byte(s.signature(parts[0]))) {
		return domain.Principal{}, ErrInvalidToken
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return domain.Principal{}, ErrInvalidToken
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return domain.Principal{}, ErrInvalidToken
	}

	if claims.ExpiresAt != 0 && time.Now().Unix() > claims.ExpiresAt {
		return domain.Principal{}, ErrTokenExpired
	}

	if claims.Subject == "" {
		return domain.Principal{}, ErrInvalidToken
	}

	return domain.Principal{ID: claims.Subject, Role: claims.Role}, nil
}

func (s *TokenService) signature(encoded string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(encoded))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
