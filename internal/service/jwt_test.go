package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	InitJWT("test-secret")

	token, err := GenerateJWT("alice.near", time.Hour)
	require.NoError(t, err)

	account, err := ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "alice.near", account)
}

func TestJWTRejects(t *testing.T) {
	InitJWT("test-secret")

	expired, err := GenerateJWT("alice.near", -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(expired)
	assert.Error(t, err)

	_, err = ParseJWT("not-a-token")
	assert.Error(t, err)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice.near",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := foreign.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = ParseJWT(signed)
	assert.Error(t, err)

	_, err = GenerateJWT("", time.Hour)
	assert.Error(t, err)
}
