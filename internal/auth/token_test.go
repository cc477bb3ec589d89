package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signedToken(t, jwt.MapClaims{"sub": "u1", "exp": exp.Unix()})

	got, err := TokenExpiry(token)
	require.NoError(t, err)
	assert.True(t, got.Equal(exp))
}

func TestTokenExpiryWithoutClaim(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "u1"})

	got, err := TokenExpiry(token)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestTokenExpiryMalformed(t *testing.T) {
	_, err := TokenExpiry("not-a-jwt")
	assert.Error(t, err)
}

func TestTokenUsable(t *testing.T) {
	t.Run("empty token is unusable", func(t *testing.T) {
		assert.False(t, TokenUsable(""))
	})

	t.Run("malformed token is unusable", func(t *testing.T) {
		assert.False(t, TokenUsable("garbage"))
	})

	t.Run("expired token is unusable", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{
			"sub": "u1",
			"exp": time.Now().Add(-time.Minute).Unix(),
		})
		assert.False(t, TokenUsable(token))
	})

	t.Run("live token is usable", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{
			"sub": "u1",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		assert.True(t, TokenUsable(token))
	})

	t.Run("token without expiry is assumed usable", func(t *testing.T) {
		token := signedToken(t, jwt.MapClaims{"sub": "u1"})
		assert.True(t, TokenUsable(token))
	})
}
