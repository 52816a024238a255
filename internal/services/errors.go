package services

import (
	"errors"
	"fmt"

	"github.com/quillpress/api-backend/internal/repositories"
	"github.com/quillpress/api-backend/internal/validators"
)

var (
	// ErrAuthenticationFailed covers unknown accounts, unapproved accounts, wrong
	// passwords and wrong, expired or consumed codes alike
	ErrAuthenticationFailed = errors.New("invalid credentials")

	// ErrAuthorizationFailed is returned for a valid session with insufficient role
	ErrAuthorizationFailed = errors.New("insufficient privileges")

	// ErrDeliveryFailed wraps the SMS channel error
	ErrDeliveryFailed = errors.New("failed to deliver one-time code")

	// ErrValidation marks malformed input rejected before any store access
	ErrValidation = errors.New("validation failed")

	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("already exists")
	ErrRateLimited = errors.New("too many requests")
)

// validationFailed joins field errors under ErrValidation
func validationFailed(errs ...error) error {
	return fmt.Errorf("%w: %s", ErrValidation, validators.FormatValidationErrors(errs))
}

// translateRepoError maps repository sentinels onto service sentinels
func translateRepoError(err error, conflictMessage string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, repositories.ErrDuplicate):
		return fmt.Errorf("%w: %s", ErrConflict, conflictMessage)
	default:
		return err
	}
}
