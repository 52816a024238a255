package crypto

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestGenerateAndVerifySessionJWT(t *testing.T) {
	token, expiresAt, err := GenerateSessionJWT(42, "jane", "super-admin", testSecret, 30*time.Minute)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, 5*time.Second)

	claims, err := VerifySessionJWT(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "super-admin", claims.Role)
	assert.Equal(t, "jane", claims.Username)
	assert.Equal(t, SessionIssuer, claims.Issuer)

	id, err := claims.AccountID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestGenerateSessionJWTValidation(t *testing.T) {
	tests := []struct {
		name      string
		accountID uint
		role      string
		secret    string
	}{
		{"missing account", 0, "admin", testSecret},
		{"missing role", 1, "", testSecret},
		{"missing secret", 1, "admin", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := GenerateSessionJWT(tt.accountID, "u", tt.role, tt.secret, time.Minute)
			assert.Error(t, err)
		})
	}
}

func TestVerifySessionJWTRejects(t *testing.T) {
	valid, _, err := GenerateSessionJWT(1, "u", "admin", testSecret, time.Minute)
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := VerifySessionJWT(valid, "ffffffffffffffffffffffffffffffff")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := VerifySessionJWT("not.a.token", testSecret)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := VerifySessionJWT("", testSecret)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("expired", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		claims := SessionClaims{
			Role: "admin",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    SessionIssuer,
				Subject:   "1",
				IssuedAt:  jwt.NewNumericDate(past),
				ExpiresAt: jwt.NewNumericDate(past.Add(time.Minute)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = VerifySessionJWT(token, testSecret)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("foreign issuer", func(t *testing.T) {
		claims := SessionClaims{
			Role: "admin",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "someone-else",
				Subject:   "1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = VerifySessionJWT(token, testSecret)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("non numeric subject", func(t *testing.T) {
		claims := SessionClaims{
			Role: "admin",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    SessionIssuer,
				Subject:   "jane",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = VerifySessionJWT(token, testSecret)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}
