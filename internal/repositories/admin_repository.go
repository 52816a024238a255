package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/quillpress/api-backend/internal/models"
)

// AdminRepository handles database operations for admin accounts
type AdminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates a new admin repository instance
func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// Create inserts a new admin account.
// Returns ErrDuplicate if username, email or mobile is taken.
func (r *AdminRepository) Create(ctx context.Context, admin *models.AdminUser) error {
	if admin == nil {
		return fmt.Errorf("admin cannot be nil")
	}
	if admin.Status == "" {
		admin.Status = models.AdminStatusPending
	}

	if err := r.db.WithContext(ctx).Create(admin).Error; err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("%w: admin username, email or mobile already exists", ErrDuplicate)
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}

	return nil
}

// FindByIdentifier retrieves an admin by username or email
func (r *AdminRepository) FindByIdentifier(ctx context.Context, identifier string) (*models.AdminUser, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, fmt.Errorf("identifier is required")
	}

	var admin models.AdminUser
	if err := r.db.WithContext(ctx).
		Where("username = ? OR LOWER(email) = ?", identifier, strings.ToLower(identifier)).
		First(&admin).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}

	return &admin, nil
}

// FindByMobile retrieves an admin by normalised mobile number
func (r *AdminRepository) FindByMobile(ctx context.Context, mobile string) (*models.AdminUser, error) {
	if mobile == "" {
		return nil, fmt.Errorf("mobile is required")
	}

	var admin models.AdminUser
	if err := r.db.WithContext(ctx).Where("mobile = ?", mobile).First(&admin).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find admin by mobile: %w", err)
	}

	return &admin, nil
}

// FindByID retrieves an admin by primary key
func (r *AdminRepository) FindByID(ctx context.Context, id uint) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := r.db.WithContext(ctx).First(&admin, id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}

	return &admin, nil
}

// List retrieves all admin accounts, newest first
func (r *AdminRepository) List(ctx context.Context) ([]*models.AdminUser, error) {
	var admins []*models.AdminUser
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&admins).Error; err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}

	return admins, nil
}

// UpdateStatus sets the approval status of an account
func (r *AdminRepository) UpdateStatus(ctx context.Context, id uint, status models.AdminStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid status %q", status)
	}

	result := r.db.WithContext(ctx).Model(&models.AdminUser{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update admin status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// UpdateRole sets the explicit role and the legacy flag together
func (r *AdminRepository) UpdateRole(ctx context.Context, id uint, role models.Role) error {
	if !role.IsValid() {
		return fmt.Errorf("invalid role %q", role)
	}

	result := r.db.WithContext(ctx).Model(&models.AdminUser{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"role":       string(role),
			"is_super":   role == models.RoleSuperAdmin,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update admin role: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Count returns the total number of admin accounts
func (r *AdminRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.AdminUser{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}

	return count, nil
}
