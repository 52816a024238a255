package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/quillpress/api-backend/internal/models"
)

// BlogFilter narrows a blog listing
type BlogFilter struct {
	Search        string
	CategorySlug  string
	PublishedOnly bool
	Page          Page
}

// BlogSuggestion is the compact row returned for search-as-you-type
type BlogSuggestion struct {
	ID    uint    `json:"id"`
	Title string  `json:"title"`
	Slug  string  `json:"slug"`
	Image *string `json:"image"`
}

// BlogImage is a blog row as listed in the media library
type BlogImage struct {
	ID       uint    `json:"id"`
	Title    string  `json:"title"`
	Image    string  `json:"image"`
	ImageAlt *string `json:"imageAlt"`
}

// BlogRepository handles database operations for blogs
type BlogRepository struct {
	db *gorm.DB
}

// NewBlogRepository creates a new blog repository instance
func NewBlogRepository(db *gorm.DB) *BlogRepository {
	return &BlogRepository{db: db}
}

// Create inserts a blog and links it to the given categories in one transaction.
// Returns ErrNotFound if a category does not exist and ErrDuplicate on a taken slug.
func (r *BlogRepository) Create(ctx context.Context, blog *models.Blog, categoryIDs []uint) error {
	if blog == nil {
		return fmt.Errorf("blog cannot be nil")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categories, err := loadCategories(tx, categoryIDs)
		if err != nil {
			return err
		}

		blog.Categories = nil
		if err := tx.Omit(clause.Associations).Create(blog).Error; err != nil {
			if isDuplicate(err) {
				return fmt.Errorf("%w: slug %q already exists", ErrDuplicate, blog.Slug)
			}
			return fmt.Errorf("failed to create blog: %w", err)
		}

		if len(categories) > 0 {
			if err := tx.Model(blog).Association("Categories").Append(categories); err != nil {
				return fmt.Errorf("failed to link categories: %w", err)
			}
		}
		blog.Categories = categories

		return nil
	})
}

// FindBySlug retrieves a blog with its categories, FAQs, comments and related posts
func (r *BlogRepository) FindBySlug(ctx context.Context, slug string, publishedOnly bool) (*models.Blog, error) {
	if slug == "" {
		return nil, fmt.Errorf("slug is required")
	}

	query := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Categories").
		Preload("FAQs", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Comments.User").
		Preload("Relations.RelatedBlog").
		Where("slug = ?", slug)
	if publishedOnly {
		query = query.Where("status = ?", true)
	}

	var blog models.Blog
	if err := query.First(&blog).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find blog: %w", err)
	}

	return &blog, nil
}

// FindByID retrieves a blog with its author, categories and FAQs
func (r *BlogRepository) FindByID(ctx context.Context, id uint) (*models.Blog, error) {
	var blog models.Blog
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Categories").
		Preload("FAQs").
		First(&blog, id).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find blog: %w", err)
	}

	return &blog, nil
}

// Update applies the given column changes. A non-nil categoryIDs replaces the
// category links, an empty slice clears them.
func (r *BlogRepository) Update(ctx context.Context, id uint, fields map[string]interface{}, categoryIDs *[]uint) (*models.Blog, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var blog models.Blog
		if err := tx.First(&blog, id).Error; err != nil {
			if isNotFound(err) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to find blog: %w", err)
		}

		if len(fields) > 0 {
			fields["updated_at"] = time.Now().UTC()
			if err := tx.Model(&blog).Updates(fields).Error; err != nil {
				if isDuplicate(err) {
					return fmt.Errorf("%w: slug already exists", ErrDuplicate)
				}
				return fmt.Errorf("failed to update blog: %w", err)
			}
		}

		if categoryIDs != nil {
			categories, err := loadCategories(tx, *categoryIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&blog).Association("Categories").Replace(categories); err != nil {
				return fmt.Errorf("failed to replace categories: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.FindByID(ctx, id)
}

// SetStatus publishes or unpublishes a blog
func (r *BlogRepository) SetStatus(ctx context.Context, id uint, published bool) error {
	result := r.db.WithContext(ctx).Model(&models.Blog{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     published,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update blog status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a blog together with its links, FAQs, comments, likes,
// favorites and relations. Returns the deleted blog.
func (r *BlogRepository) Delete(ctx context.Context, id uint) (*models.Blog, error) {
	var blog models.Blog

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&blog, id).Error; err != nil {
			if isNotFound(err) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to find blog: %w", err)
		}

		for _, dependent := range []interface{}{&models.FAQ{}, &models.Comment{}, &models.Like{}, &models.Favorite{}} {
			if err := tx.Where("blog_id = ?", id).Delete(dependent).Error; err != nil {
				return fmt.Errorf("failed to delete blog dependents: %w", err)
			}
		}
		if err := tx.Where("blog_id = ? OR related_blog_id = ?", id, id).Delete(&models.BlogRelation{}).Error; err != nil {
			return fmt.Errorf("failed to delete blog relations: %w", err)
		}

		if err := tx.Exec("DELETE FROM blog_categories WHERE blog_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to unlink categories: %w", err)
		}

		if err := tx.Delete(&models.Blog{}, id).Error; err != nil {
			return fmt.Errorf("failed to delete blog: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &blog, nil
}

// List retrieves a page of blogs, newest first, with their categories
func (r *BlogRepository) List(ctx context.Context, filter BlogFilter) ([]*models.Blog, int64, error) {
	page := filter.Page.Normalize()

	query := r.filtered(ctx, filter)

	var total int64
	if err := query.Model(&models.Blog{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count blogs: %w", err)
	}

	var blogs []*models.Blog
	if err := r.filtered(ctx, filter).
		Preload("Author").
		Preload("Categories").
		Order("blogs.created_at DESC").
		Order("blogs.id DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&blogs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list blogs: %w", err)
	}

	return blogs, total, nil
}

// Suggest returns up to limit published titles matching search
func (r *BlogRepository) Suggest(ctx context.Context, search string, limit int) ([]BlogSuggestion, error) {
	search = strings.TrimSpace(search)
	if search == "" {
		return []BlogSuggestion{}, nil
	}

	suggestions := []BlogSuggestion{}
	if err := r.db.WithContext(ctx).Model(&models.Blog{}).
		Select("id", "title", "slug", "image").
		Where("status = ?", true).
		Where("LOWER(title) LIKE ?", likePattern(search)).
		Order("created_at DESC").
		Limit(limit).
		Scan(&suggestions).Error; err != nil {
		return nil, fmt.Errorf("failed to suggest blogs: %w", err)
	}

	return suggestions, nil
}

// SlugExists reports whether another blog already uses slug
func (r *BlogRepository) SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Blog{}).Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check blog slug: %w", err)
	}

	return count > 0, nil
}

// ImagePage retrieves a page of blogs that carry an image, newest first
func (r *BlogRepository) ImagePage(ctx context.Context, page Page) ([]BlogImage, error) {
	page = page.Normalize()

	images := []BlogImage{}
	if err := r.db.WithContext(ctx).Model(&models.Blog{}).
		Select("id", "title", "image", "image_alt").
		Where("image IS NOT NULL AND image <> ''").
		Order("created_at DESC").
		Order("id DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Scan(&images).Error; err != nil {
		return nil, fmt.Errorf("failed to list blog images: %w", err)
	}

	return images, nil
}

// CountWithImages returns the number of blogs that carry an image
func (r *BlogRepository) CountWithImages(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Blog{}).
		Where("image IS NOT NULL AND image <> ''").
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count blog images: %w", err)
	}
	return count, nil
}

// Count returns the number of blogs, optionally only published ones
func (r *BlogRepository) Count(ctx context.Context, publishedOnly bool) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Blog{})
	if publishedOnly {
		query = query.Where("status = ?", true)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count blogs: %w", err)
	}
	return count, nil
}

// CountLikes returns the number of likes on a blog
func (r *BlogRepository) CountLikes(ctx context.Context, blogID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).Where("blog_id = ?", blogID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}

// CountFavorites returns the number of readers who saved a blog
func (r *BlogRepository) CountFavorites(ctx context.Context, blogID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Favorite{}).Where("blog_id = ?", blogID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count favorites: %w", err)
	}
	return count, nil
}

// Titles maps blog ids to titles. Unknown ids are absent from the map.
func (r *BlogRepository) Titles(ctx context.Context, ids []uint) (map[uint]string, error) {
	titles := make(map[uint]string, len(ids))
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return titles, nil
	}

	var rows []BlogSuggestion
	if err := r.db.WithContext(ctx).Model(&models.Blog{}).
		Select("id", "title").
		Where("id IN ?", ids).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load blog titles: %w", err)
	}
	for _, row := range rows {
		titles[row.ID] = row.Title
	}

	return titles, nil
}

func (r *BlogRepository) filtered(ctx context.Context, filter BlogFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Blog{})

	if filter.PublishedOnly {
		query = query.Where("blogs.status = ?", true)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := likePattern(search)
		query = query.Where("(LOWER(blogs.title) LIKE ? OR LOWER(blogs.content) LIKE ?)", pattern, pattern)
	}
	if filter.CategorySlug != "" {
		query = query.
			Joins("JOIN blog_categories ON blog_categories.blog_id = blogs.id").
			Joins("JOIN categories ON categories.id = blog_categories.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}

	return query
}

func loadCategories(tx *gorm.DB, ids []uint) ([]models.Category, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return []models.Category{}, nil
	}

	var categories []models.Category
	if err := tx.Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	if len(categories) != len(ids) {
		return nil, fmt.Errorf("%w: one or more categories do not exist", ErrNotFound)
	}

	return categories, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == 0 {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func likePattern(search string) string {
	escaped := strings.NewReplacer("%", "", "_", "").Replace(strings.ToLower(search))
	return "%" + escaped + "%"
}
