package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/quillpress/api-backend/internal/models"
)

// CommentRepository handles database operations for reader comments
type CommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository instance
func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// List retrieves a page of comments across all blogs, newest first.
// A non-zero blogID restricts the listing to one blog.
func (r *CommentRepository) List(ctx context.Context, blogID uint, page Page) ([]*models.Comment, int64, error) {
	page = page.Normalize()

	scoped := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&models.Comment{})
		if blogID != 0 {
			query = query.Where("blog_id = ?", blogID)
		}
		return query
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count comments: %w", err)
	}

	comments := []*models.Comment{}
	if err := scoped().
		Preload("User").
		Order("created_at DESC").
		Order("id DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&comments).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list comments: %w", err)
	}

	return comments, total, nil
}

// Delete removes a comment
func (r *CommentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete comment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Count returns the number of comments
func (r *CommentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return count, nil
}
