package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("k", "user-1", 10)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), tok.Exp, 5*time.Second)

	sub, err := ParseAccessToken("k", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub)

	_, err = ParseAccessToken("other", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessTokenRejects(t *testing.T) {
	sign := func(method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	future := jwt.NewNumericDate(time.Now().Add(time.Hour))
	past := jwt.NewNumericDate(time.Now().Add(-time.Hour))

	cases := map[string]string{
		"expired":     sign(jwt.SigningMethodHS256, []byte("k"), jwt.RegisteredClaims{Subject: "u", ExpiresAt: past}),
		"no expiry":   sign(jwt.SigningMethodHS256, []byte("k"), jwt.RegisteredClaims{Subject: "u"}),
		"no subject":  sign(jwt.SigningMethodHS256, []byte("k"), jwt.RegisteredClaims{ExpiresAt: future}),
		"other hmac":  sign(jwt.SigningMethodHS512, []byte("k"), jwt.RegisteredClaims{Subject: "u", ExpiresAt: future}),
		"unsigned":    sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.RegisteredClaims{Subject: "u", ExpiresAt: future}),
		"not a token": "hello",
		"empty":       "",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseAccessToken("k", raw)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestRefreshToken(t *testing.T) {
	a, err := NewRefreshToken(7)
	require.NoError(t, err)
	b, err := NewRefreshToken(7)
	require.NoError(t, err)

	assert.Len(t, a.Raw, 96)
	assert.NotEqual(t, a.Raw, b.Raw)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), a.Exp, 5*time.Second)

	h := HashRefreshRaw(a.Raw)
	assert.Len(t, h, 64)
	assert.Equal(t, h, HashRefreshRaw(a.Raw))
	assert.NotEqual(t, h, HashRefreshRaw(b.Raw))
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("correct horse", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "correct horse"))
	assert.False(t, VerifyPassword(hash, "battery staple"))
	assert.False(t, VerifyPassword("not-a-hash", "correct horse"))
}

func TestHashPasswordClampsCost(t *testing.T) {
	hash, err := HashPassword("pw", 0)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
