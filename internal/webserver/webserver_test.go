package webserver

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseToken(t *testing.T, secret, signed string) *SessionClaims {
	t.Helper()
	claims := new(SessionClaims)
	token, err := jwt.ParseWithClaims(signed, claims, func(tk *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	return claims
}

func TestSignTokenRoundTrip(t *testing.T) {
	signed, err := SignToken("testsecret", "9000000001", 42, time.Hour)
	require.NoError(t, err)

	claims := parseToken(t, "testsecret", signed)
	assert.Equal(t, "9000000001", claims.Mobile)
	assert.Equal(t, int64(42), claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestSignTokenWrongSecretFails(t *testing.T) {
	signed, err := SignToken("testsecret", "9000000001", 42, time.Hour)
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(signed, new(SessionClaims), func(tk *jwt.Token) (interface{}, error) {
		return []byte("othersecret"), nil
	})
	assert.Error(t, err)
}

func TestExpiredTokenFailsValidation(t *testing.T) {
	signed, err := SignToken("testsecret", "9000000001", 42, -time.Minute)
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(signed, new(SessionClaims), func(tk *jwt.Token) (interface{}, error) {
		return []byte("testsecret"), nil
	})
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}
