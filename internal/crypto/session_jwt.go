package crypto

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// SessionIssuer is the iss claim of every session token
	SessionIssuer = "quillpress-admin"

	// DefaultSessionTTL is the session lifetime (30 minutes)
	DefaultSessionTTL = 30 * time.Minute
)

var (
	// ErrTokenExpired is returned for a well-signed token past its exp claim
	ErrTokenExpired = errors.New("session token expired")

	// ErrTokenInvalid is returned for any other verification failure
	ErrTokenInvalid = errors.New("invalid session token")
)

// SessionClaims are the claims of an admin session token.
// The role is a snapshot taken at sign-in and is not refreshed.
type SessionClaims struct {
	Role     string `json:"role"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AccountID returns the numeric account id carried in the sub claim
func (c *SessionClaims) AccountID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid subject %q: %w", c.Subject, err)
	}
	return uint(id), nil
}

// GenerateSessionJWT signs an HS256 session token for the given account.
// Returns the token string and expiration timestamp.
func GenerateSessionJWT(accountID uint, username, role, secret string, ttl time.Duration) (token string, expiresAt time.Time, err error) {
	if accountID == 0 {
		return "", time.Time{}, fmt.Errorf("account id is required")
	}
	if role == "" {
		return "", time.Time{}, fmt.Errorf("role is required")
	}
	if secret == "" {
		return "", time.Time{}, fmt.Errorf("session secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	now := time.Now().UTC()
	expiresAt = now.Add(ttl)

	claims := SessionClaims{
		Role:     role,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    SessionIssuer,
			Subject:   strconv.FormatUint(uint64(accountID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return signed, expiresAt, nil
}

// VerifySessionJWT verifies signature, issuer and expiry and returns the claims
func VerifySessionJWT(tokenString, secret string) (*SessionClaims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: token is required", ErrTokenInvalid)
	}
	if secret == "" {
		return nil, fmt.Errorf("session secret is required")
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(SessionIssuer), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}
	if _, err := claims.AccountID(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	return claims, nil
}
