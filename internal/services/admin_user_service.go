package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/quillpress/api-backend/internal/models"
	"github.com/quillpress/api-backend/internal/repositories"
	"github.com/quillpress/api-backend/internal/validators"
)

// AdminSummary is the listing view of an admin account
type AdminSummary struct {
	ID       uint               `json:"id"`
	Username string             `json:"username"`
	Email    *string            `json:"email"`
	Status   models.AdminStatus `json:"status"`
	Role     models.Role        `json:"role"`
	IsSuper  bool               `json:"isSuper"`
}

// AdminUserService lets super-admins review admin accounts
type AdminUserService struct {
	admins   *repositories.AdminRepository
	notifier StatusNotifier
	log      *zap.Logger
}

// NewAdminUserService creates a new admin user service instance
func NewAdminUserService(admins *repositories.AdminRepository, notifier StatusNotifier, log *zap.Logger) (*AdminUserService, error) {
	if admins == nil {
		return nil, fmt.Errorf("admin repository is required")
	}
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &AdminUserService{admins: admins, notifier: notifier, log: log}, nil
}

// List returns every admin account, newest first
func (s *AdminUserService) List(ctx context.Context) ([]AdminSummary, error) {
	admins, err := s.admins.List(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]AdminSummary, 0, len(admins))
	for _, a := range admins {
		role := a.EffectiveRole()
		summaries = append(summaries, AdminSummary{
			ID:       a.ID,
			Username: a.Username,
			Email:    a.Email,
			Status:   a.Status,
			Role:     role,
			IsSuper:  role == models.RoleSuperAdmin,
		})
	}

	return summaries, nil
}

// UpdateStatus changes the approval status of targetID on behalf of actorID.
// Only super-admins may do this and never on their own account.
// The account owner is notified; a failed notification is only logged.
func (s *AdminUserService) UpdateStatus(ctx context.Context, actorID, targetID uint, status string) (*models.AdminUser, error) {
	status = strings.TrimSpace(status)
	if err := validators.ValidateAdminStatus(status, "status"); err != nil {
		return nil, validationFailed(err)
	}

	actor, err := s.admins.FindByID(ctx, actorID)
	if err != nil {
		return nil, translateRepoError(err, "")
	}
	if actor.EffectiveRole() != models.RoleSuperAdmin {
		return nil, ErrAuthorizationFailed
	}
	if actorID == targetID {
		return nil, fmt.Errorf("%w: you cannot change your own status", ErrAuthorizationFailed)
	}

	target, err := s.admins.FindByID(ctx, targetID)
	if err != nil {
		return nil, translateRepoError(err, "")
	}

	newStatus := models.AdminStatus(status)
	if target.Status == newStatus {
		return target, nil
	}

	if err := s.admins.UpdateStatus(ctx, targetID, newStatus); err != nil {
		return nil, translateRepoError(err, "")
	}
	target.Status = newStatus

	s.log.Info("admin status changed",
		zap.Uint("admin_id", targetID),
		zap.Uint("changed_by", actorID),
		zap.String("status", status),
	)

	if err := s.notifier.NotifyStatusChange(ctx, target); err != nil {
		s.log.Warn("failed to notify admin of status change", zap.Uint("admin_id", targetID), zap.Error(err))
	}

	return target, nil
}
