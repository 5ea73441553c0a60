package services

import (
	"testing"
	"time"

	"mediagate/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewAuthService("test-secret", time.Minute)

	p := domain.Principal{ID: "u42", Email: "learner@example.com", Role: domain.RoleAdmin}
	token, err := svc.GenerateToken(p)
	require.NoError(t, err)

	got, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService("test-secret", time.Minute)

	_, err := svc.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewAuthService("secret-a", time.Minute)
	verifier := NewAuthService("secret-b", time.Minute)

	token, err := issuer.GenerateToken(domain.Principal{ID: "u1", Role: domain.RoleUser})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc := NewAuthService("test-secret", -time.Minute)

	token, err := svc.GenerateToken(domain.Principal{ID: "u1", Role: domain.RoleUser})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenNormalizesUnknownRole(t *testing.T) {
	svc := NewAuthService("test-secret", time.Minute)

	token, err := svc.GenerateToken(domain.Principal{ID: "u1", Role: "superuser"})
	require.NoError(t, err)

	got, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, got.Role)
}
