package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoginToken(t *testing.T) {
	const secret = "test-secret"
	tok, err := NewLoginToken(secret, "alice", "admin", 7)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)

	parsed, err := jwt.Parse(tok.Token, func(tk *jwt.Token) (any, error) {
		assert.Equal(t, jwt.SigningMethodHS256, tk.Method)
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "alice", claims["sub"])
	assert.Equal(t, "admin", claims["role"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC().Add(7*24*time.Hour), exp.Time, time.Minute)
	assert.WithinDuration(t, exp.Time, tok.Exp, time.Second)
}

func TestLoginTokenWrongSecret(t *testing.T) {
	tok, err := NewLoginToken("right-secret", "alice", "customer", 1)
	require.NoError(t, err)

	_, err = jwt.Parse(tok.Token, func(*jwt.Token) (any, error) {
		return []byte("wrong-secret"), nil
	})
	assert.Error(t, err)
}

func TestLoginTokenExpired(t *testing.T) {
	// Zero TTL produces a token that is already past its exp claim.
	tok, err := NewLoginToken("s", "alice", "customer", 0)
	require.NoError(t, err)

	_, err = jwt.Parse(tok.Token, func(*jwt.Token) (any, error) {
		return []byte("s"), nil
	})
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}
