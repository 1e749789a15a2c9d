package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-that-is-long-enough"

func TestNewJWTManager(t *testing.T) {
	t.Run("creates with custom config", func(t *testing.T) {
		manager := NewJWTManager(&JWTConfig{Secret: testSecret, TokenTTL: 30 * time.Minute})
		assert.Equal(t, 30*time.Minute, manager.TokenTTL())
	})

	t.Run("nil config uses defaults", func(t *testing.T) {
		manager := NewJWTManager(nil)
		assert.Equal(t, 24*time.Hour, manager.TokenTTL())
	})
}

func TestJWTManager_RoundTrip(t *testing.T) {
	manager := NewJWTManager(&JWTConfig{Secret: testSecret, Issuer: "quickai", TokenTTL: time.Hour})

	token, expiresAt, err := manager.GenerateToken("user_123", "a@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user_123", claims.UserID())
	assert.Equal(t, "a@example.com", claims.Email)
}

func TestJWTManager_GenerateToken_RequiresSubject(t *testing.T) {
	manager := NewJWTManager(&JWTConfig{Secret: testSecret})

	_, _, err := manager.GenerateToken("", "")
	assert.ErrorIs(t, err, ErrMissingSubject)
}

func TestJWTManager_ValidateToken(t *testing.T) {
	manager := NewJWTManager(&JWTConfig{Secret: testSecret, Issuer: "quickai"})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := manager.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects wrong secret", func(t *testing.T) {
		other := NewJWTManager(&JWTConfig{Secret: "another-secret-key-long-enough", Issuer: "quickai"})
		token, _, err := other.GenerateToken("user_1", "")
		require.NoError(t, err)

		_, err = manager.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects wrong issuer", func(t *testing.T) {
		other := NewJWTManager(&JWTConfig{Secret: testSecret, Issuer: "someone-else"})
		token, _, err := other.GenerateToken("user_1", "")
		require.NoError(t, err)

		_, err = manager.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "quickai",
			Subject:   "user_1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = manager.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects token without subject", func(t *testing.T) {
		claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "quickai",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		}}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = manager.ValidateToken(token)
		assert.ErrorIs(t, err, ErrMissingSubject)
	})
}
