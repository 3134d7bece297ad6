package jwt

import (
	"testing"
	"time"

	"careportal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateSessionToken(t *testing.T) {
	service := NewService(config.JWTConfig{Secret: "test-secret", SessionExpiry: time.Hour})

	token, tokenID, err := service.GenerateSessionToken(42, "member@example.com", "member")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, tokenID)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "member@example.com", claims.Email)
	assert.Equal(t, "member", claims.UserType)
	assert.Equal(t, tokenID, claims.TokenID)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewService(config.JWTConfig{Secret: "secret-a", SessionExpiry: time.Hour})
	verifier := NewService(config.JWTConfig{Secret: "secret-b", SessionExpiry: time.Hour})

	token, _, err := issuer.GenerateSessionToken(1, "a@example.com", "member")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	service := NewService(config.JWTConfig{Secret: "test-secret", SessionExpiry: -time.Minute})

	token, _, err := service.GenerateSessionToken(1, "a@example.com", "member")
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.Error(t, err)
}
