package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/quillpress/api-backend/internal/models"
)

// FAQRepository handles database operations for blog FAQs
type FAQRepository struct {
	db *gorm.DB
}

// NewFAQRepository creates a new FAQ repository instance
func NewFAQRepository(db *gorm.DB) *FAQRepository {
	return &FAQRepository{db: db}
}

// Create inserts a FAQ. Returns ErrNotFound if the blog does not exist.
func (r *FAQRepository) Create(ctx context.Context, faq *models.FAQ) error {
	if faq == nil {
		return fmt.Errorf("faq cannot be nil")
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Blog{}).Where("id = ?", faq.BlogID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check blog: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: blog %d", ErrNotFound, faq.BlogID)
	}

	if err := r.db.WithContext(ctx).Create(faq).Error; err != nil {
		return fmt.Errorf("failed to create faq: %w", err)
	}

	return nil
}

// ListByBlog retrieves the FAQs of a blog in insertion order
func (r *FAQRepository) ListByBlog(ctx context.Context, blogID uint) ([]*models.FAQ, error) {
	faqs := []*models.FAQ{}
	if err := r.db.WithContext(ctx).Where("blog_id = ?", blogID).Order("id ASC").Find(&faqs).Error; err != nil {
		return nil, fmt.Errorf("failed to list faqs: %w", err)
	}

	return faqs, nil
}

// FindByID retrieves a FAQ by primary key
func (r *FAQRepository) FindByID(ctx context.Context, id uint) (*models.FAQ, error) {
	var faq models.FAQ
	if err := r.db.WithContext(ctx).First(&faq, id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find faq: %w", err)
	}

	return &faq, nil
}

// Update replaces the question and answer of a FAQ
func (r *FAQRepository) Update(ctx context.Context, id uint, question, answer string) (*models.FAQ, error) {
	result := r.db.WithContext(ctx).Model(&models.FAQ{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"question":   question,
			"answer":     answer,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update faq: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return r.FindByID(ctx, id)
}

// Delete removes a FAQ
func (r *FAQRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.FAQ{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete faq: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
