package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinhtqfx07044/laptop/internal/config"
)

func newTestTokenService() *TokenService {
	return NewTokenService(&config.AuthConfig{
		JWTSecret: "test-secret-at-least-32-characters",
		TokenTTL:  3600,
	}, "laptop-repair")
}

func TestIssueAndValidateToken(t *testing.T) {
	s := newTestTokenService()
	now := time.Now()

	token, expiresAt, err := s.IssueToken("admin", now)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(time.Hour), expiresAt, time.Second)

	user, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)
}

func TestValidateToken_Expired(t *testing.T) {
	s := newTestTokenService()

	token, _, err := s.IssueToken("admin", time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	_, err = s.ValidateToken(token)
	assert.True(t, errors.Is(err, ErrExpiredToken))
}

func TestValidateToken_WrongSecret(t *testing.T) {
	s := newTestTokenService()
	other := NewTokenService(&config.AuthConfig{
		JWTSecret: "a-completely-different-secret-value",
		TokenTTL:  3600,
	}, "laptop-repair")

	token, _, err := other.IssueToken("admin", time.Now())
	require.NoError(t, err)

	_, err = s.ValidateToken(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestValidateToken_WrongIssuer(t *testing.T) {
	s := newTestTokenService()
	other := NewTokenService(&config.AuthConfig{
		JWTSecret: "test-secret-at-least-32-characters",
		TokenTTL:  3600,
	}, "someone-else")

	token, _, err := other.IssueToken("admin", time.Now())
	require.NoError(t, err)

	_, err = s.ValidateToken(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestValidateToken_Garbage(t *testing.T) {
	s := newTestTokenService()
	_, err := s.ValidateToken("not.a.token")
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestVerifyCredentials(t *testing.T) {
	cfg := &config.AuthConfig{StaffUsername: "admin", StaffPassword: "s3cret"}

	assert.True(t, VerifyCredentials(cfg, "admin", "s3cret"))
	assert.False(t, VerifyCredentials(cfg, "admin", "wrong"))
	assert.False(t, VerifyCredentials(cfg, "someone", "s3cret"))
}
