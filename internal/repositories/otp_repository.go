package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/quillpress/api-backend/internal/models"
)

// OTPRepository handles database operations for OTP challenges
type OTPRepository struct {
	db *gorm.DB
}

// NewOTPRepository creates a new OTP repository instance
func NewOTPRepository(db *gorm.DB) *OTPRepository {
	return &OTPRepository{db: db}
}

// Issue consumes every unconsumed challenge for the mobile and inserts the new one
// in a single transaction, so at most one challenge per mobile is ever verifiable
func (r *OTPRepository) Issue(ctx context.Context, challenge *models.OTPChallenge) error {
	if challenge == nil {
		return fmt.Errorf("challenge cannot be nil")
	}
	if challenge.Mobile == "" {
		return fmt.Errorf("mobile is required")
	}

	now := time.Now().UTC()
	challenge.CreatedAt = now
	challenge.Consumed = false
	challenge.ConsumedAt = nil

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockMobile(tx, challenge.Mobile); err != nil {
			return fmt.Errorf("failed to lock mobile: %w", err)
		}

		if err := tx.Model(&models.OTPChallenge{}).
			Where("mobile = ? AND consumed = ?", challenge.Mobile, false).
			Updates(map[string]interface{}{
				"consumed":    true,
				"consumed_at": now,
			}).Error; err != nil {
			return fmt.Errorf("failed to invalidate previous challenges: %w", err)
		}

		if err := tx.Create(challenge).Error; err != nil {
			return fmt.Errorf("failed to create otp challenge: %w", err)
		}

		return nil
	})
}

// lockMobile serializes challenge issue for one mobile inside tx.
// SQLite serializes writers already; Postgres takes a transaction-scoped advisory lock.
func lockMobile(tx *gorm.DB, mobile string) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	return tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", mobile).Error
}

// Consume atomically marks the matching active challenge as consumed.
// It returns true only for the single caller whose update took effect.
func (r *OTPRepository) Consume(ctx context.Context, mobile, codeHash string) (bool, error) {
	if mobile == "" || codeHash == "" {
		return false, fmt.Errorf("mobile and code hash are required")
	}

	now := time.Now().UTC()
	result := r.db.WithContext(ctx).Model(&models.OTPChallenge{}).
		Where("mobile = ? AND code_hash = ? AND consumed = ? AND expires_at > ?", mobile, codeHash, false, now).
		Updates(map[string]interface{}{
			"consumed":    true,
			"consumed_at": now,
		})

	if result.Error != nil {
		return false, fmt.Errorf("failed to consume otp challenge: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

// Invalidate marks a single challenge as consumed
func (r *OTPRepository) Invalidate(ctx context.Context, id uint) error {
	now := time.Now().UTC()
	if err := r.db.WithContext(ctx).Model(&models.OTPChallenge{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"consumed":    true,
			"consumed_at": now,
		}).Error; err != nil {
		return fmt.Errorf("failed to invalidate otp challenge: %w", err)
	}
	return nil
}

// LastByMobile retrieves the most recent challenge for a mobile.
// Returns nil if no challenge was ever issued.
func (r *OTPRepository) LastByMobile(ctx context.Context, mobile string) (*models.OTPChallenge, error) {
	if mobile == "" {
		return nil, fmt.Errorf("mobile is required")
	}

	var challenge models.OTPChallenge
	if err := r.db.WithContext(ctx).
		Where("mobile = ?", mobile).
		Order("created_at DESC").
		Order("id DESC").
		First(&challenge).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last challenge: %w", err)
	}

	return &challenge, nil
}

// ListByMobile retrieves all challenges for a mobile, newest first
func (r *OTPRepository) ListByMobile(ctx context.Context, mobile string) ([]*models.OTPChallenge, error) {
	var challenges []*models.OTPChallenge
	if err := r.db.WithContext(ctx).
		Where("mobile = ?", mobile).
		Order("id DESC").
		Find(&challenges).Error; err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	return challenges, nil
}

// CleanupExpired removes challenges that expired before the cutoff, consumed or not.
// Returns the number of rows deleted.
func (r *OTPRepository) CleanupExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", cutoff.UTC()).
		Delete(&models.OTPChallenge{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to cleanup expired challenges: %w", result.Error)
	}

	return result.RowsAffected, nil
}
