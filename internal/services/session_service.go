package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/quillpress/api-backend/internal/crypto"
	"github.com/quillpress/api-backend/internal/models"
)

// SessionConfig holds session token parameters
type SessionConfig struct {
	// Secret signs session tokens (HS256)
	Secret string
}

// Session is the result of a successful login
type Session struct {
	Token     string
	ExpiresAt time.Time
	Admin     *models.AdminUser
	Role      models.Role
}

// SessionService exchanges verified credentials or codes for signed session tokens
type SessionService struct {
	credentials *CredentialStore
	otp         *OTPService
	config      SessionConfig
	log         *zap.Logger
}

// NewSessionService creates a new session service instance
func NewSessionService(credentials *CredentialStore, otp *OTPService, config SessionConfig, log *zap.Logger) (*SessionService, error) {
	if credentials == nil {
		return nil, fmt.Errorf("credential store is required")
	}
	if otp == nil {
		return nil, fmt.Errorf("otp service is required")
	}
	if config.Secret == "" {
		return nil, fmt.Errorf("session secret is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &SessionService{credentials: credentials, otp: otp, config: config, log: log}, nil
}

// LoginWithPassword authenticates by username or email and password
func (s *SessionService) LoginWithPassword(ctx context.Context, identifier, password string) (*Session, error) {
	admin, err := s.credentials.Authenticate(ctx, identifier, password)
	if err != nil {
		return nil, err
	}

	return s.mint(admin, "password")
}

// LoginWithOTP verifies a code and mints a session for the owning account
func (s *SessionService) LoginWithOTP(ctx context.Context, mobile, code string) (*Session, error) {
	admin, err := s.otp.Verify(ctx, mobile, code)
	if err != nil {
		return nil, err
	}

	return s.mint(admin, "otp")
}

// ValidateToken verifies a session token and its role claim.
// Any defect in the token is ErrAuthenticationFailed.
func (s *SessionService) ValidateToken(token string) (*crypto.SessionClaims, error) {
	claims, err := crypto.VerifySessionJWT(token, s.config.Secret)
	if err != nil {
		if errors.Is(err, crypto.ErrTokenExpired) || errors.Is(err, crypto.ErrTokenInvalid) {
			return nil, ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("failed to verify session token: %w", err)
	}

	if _, ok := models.ParseRole(claims.Role); !ok {
		return nil, ErrAuthenticationFailed
	}

	return claims, nil
}

// TTL returns the fixed session lifetime
func (s *SessionService) TTL() time.Duration {
	return crypto.DefaultSessionTTL
}

func (s *SessionService) mint(admin *models.AdminUser, method string) (*Session, error) {
	role := admin.EffectiveRole()
	if _, ok := models.ParseRole(string(role)); !ok {
		s.log.Warn("refusing session for unrecognised role",
			zap.Uint("admin_id", admin.ID),
			zap.String("role", string(role)),
		)
		return nil, ErrAuthenticationFailed
	}

	token, expiresAt, err := crypto.GenerateSessionJWT(admin.ID, admin.Username, string(role), s.config.Secret, crypto.DefaultSessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to mint session token: %w", err)
	}

	s.log.Info("admin signed in",
		zap.Uint("admin_id", admin.ID),
		zap.String("role", string(role)),
		zap.String("method", method),
	)

	return &Session{Token: token, ExpiresAt: expiresAt, Admin: admin, Role: role}, nil
}
