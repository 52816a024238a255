package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/quillpress/api-backend/internal/crypto"
	"github.com/quillpress/api-backend/internal/models"
	"github.com/quillpress/api-backend/internal/repositories"
	"github.com/quillpress/api-backend/internal/validators"
)

// CredentialStore authenticates admin accounts by username or email and password
type CredentialStore struct {
	admins *repositories.AdminRepository
	log    *zap.Logger
}

// NewCredentialStore creates a new credential store
func NewCredentialStore(admins *repositories.AdminRepository, log *zap.Logger) (*CredentialStore, error) {
	if admins == nil {
		return nil, fmt.Errorf("admin repository is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &CredentialStore{admins: admins, log: log}, nil
}

// Authenticate returns the account only if it exists, is approved and the
// password verifies. Every failure is ErrAuthenticationFailed.
func (s *CredentialStore) Authenticate(ctx context.Context, identifier, password string) (*models.AdminUser, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, validationFailed(validators.NewValidationError("credentials", "identifier and password are required"))
	}

	admin, err := s.admins.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			crypto.CompareDummyPassword(password)
			return nil, ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}

	// Hash check runs before the status check so both paths cost one bcrypt comparison
	if err := crypto.ComparePassword(admin.Password, password); err != nil {
		if !errors.Is(err, crypto.ErrPasswordMismatch) {
			s.log.Warn("stored password hash is unusable", zap.Uint("admin_id", admin.ID), zap.Error(err))
		}
		return nil, ErrAuthenticationFailed
	}

	if !admin.IsApproved() {
		s.log.Info("login refused for unapproved account",
			zap.Uint("admin_id", admin.ID),
			zap.String("status", string(admin.Status)),
		)
		return nil, ErrAuthenticationFailed
	}

	return admin, nil
}
