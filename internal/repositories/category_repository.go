package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/quillpress/api-backend/internal/models"
)

// CategoryRepository handles database operations for categories
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository instance
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create inserts a new category.
// Returns ErrDuplicate if the name or slug is taken.
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category == nil {
		return fmt.Errorf("category cannot be nil")
	}

	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("%w: category name or slug already exists", ErrDuplicate)
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// FindByID retrieves a category by primary key
func (r *CategoryRepository) FindByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	return &category, nil
}

// FindBySlug retrieves a category by slug
func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	if slug == "" {
		return nil, fmt.Errorf("slug is required")
	}

	var category models.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	return &category, nil
}

// ListWithCounts retrieves all categories ordered by name with the number of
// linked blogs. publishedOnly restricts the count to published blogs.
func (r *CategoryRepository) ListWithCounts(ctx context.Context, publishedOnly bool) ([]models.CategoryWithCount, error) {
	blogJoin := "LEFT JOIN blogs ON blogs.id = blog_categories.blog_id"
	args := []interface{}{}
	if publishedOnly {
		blogJoin += " AND blogs.status = ?"
		args = append(args, true)
	}

	categories := []models.CategoryWithCount{}
	if err := r.db.WithContext(ctx).Model(&models.Category{}).
		Select("categories.*, COUNT(blogs.id) AS posts").
		Joins("LEFT JOIN blog_categories ON blog_categories.category_id = categories.id").
		Joins(blogJoin, args...).
		Group("categories.id").
		Order("categories.name ASC").
		Scan(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return categories, nil
}

// Update applies the given column changes.
// Returns ErrDuplicate if the new name or slug is taken.
func (r *CategoryRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) (*models.Category, error) {
	if len(fields) > 0 {
		fields["updated_at"] = time.Now().UTC()
		result := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Updates(fields)
		if result.Error != nil {
			if isDuplicate(result.Error) {
				return nil, fmt.Errorf("%w: category name or slug already exists", ErrDuplicate)
			}
			return nil, fmt.Errorf("failed to update category: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}

	return r.FindByID(ctx, id)
}

// Delete unlinks a category from every blog and removes it
func (r *CategoryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM blog_categories WHERE category_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to unlink category: %w", err)
		}

		result := tx.Delete(&models.Category{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete category: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		return nil
	})
}

// SlugExists reports whether another category already uses slug
func (r *CategoryRepository) SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Category{}).Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check category slug: %w", err)
	}

	return count > 0, nil
}

// NameOrSlugExists reports whether another category uses name or slug
func (r *CategoryRepository) NameOrSlugExists(ctx context.Context, name, slug string, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Category{}).Where("(name = ? OR slug = ?)", name, slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check category: %w", err)
	}

	return count > 0, nil
}

// Count returns the number of categories
func (r *CategoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Category{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return count, nil
}
