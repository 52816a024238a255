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

const categoryConflictMessage = "Category name or slug already exists"

// CategoryInput carries the fields of a category. Nil pointers leave a field unchanged on update.
type CategoryInput struct {
	Name        *string
	Slug        *string
	Description *string
	Image       *Upload
}

// CategoryPage is a category with one page of its published blogs
type CategoryPage struct {
	Category *models.Category
	Blogs    *BlogPage
}

// CategoryService manages categories
type CategoryService struct {
	categories *repositories.CategoryRepository
	blogs      *BlogService
	images     ImageStore
	validator  *validators.CategoryValidator
	log        *zap.Logger
}

// NewCategoryService creates a new category service instance
func NewCategoryService(categories *repositories.CategoryRepository, blogs *BlogService, images ImageStore, log *zap.Logger) (*CategoryService, error) {
	if categories == nil {
		return nil, fmt.Errorf("category repository is required")
	}
	if blogs == nil {
		return nil, fmt.Errorf("blog service is required")
	}
	if images == nil {
		return nil, fmt.Errorf("image store is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &CategoryService{
		categories: categories,
		blogs:      blogs,
		images:     images,
		validator:  &validators.CategoryValidator{},
		log:        log,
	}, nil
}

// Create validates and stores a category. An empty slug is derived from the name.
func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(deref(in.Name))
	slug := strings.TrimSpace(deref(in.Slug))
	if slug == "" {
		slug = validators.Slugify(name)
	}

	if errs := s.validator.ValidateCategory(name, slug); len(errs) > 0 {
		return nil, validationFailed(errs...)
	}

	exists, err := s.categories.NameOrSlugExists(ctx, name, slug, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrConflict, categoryConflictMessage)
	}

	category := &models.Category{Name: name, Slug: slug, Description: in.Description}
	if in.Image != nil {
		url, err := s.images.UploadImage(ctx, *in.Image)
		if err != nil {
			return nil, err
		}
		category.Image = &url
	}

	if err := s.categories.Create(ctx, category); err != nil {
		if category.Image != nil {
			s.discardImage(ctx, *category.Image)
		}
		return nil, translateRepoError(err, categoryConflictMessage)
	}

	s.log.Info("category created", zap.Uint("category_id", category.ID), zap.String("slug", slug))
	return category, nil
}

// Update applies a partial update. A new image replaces and deletes the old one.
func (s *CategoryService) Update(ctx context.Context, id uint, in CategoryInput) (*models.Category, error) {
	current, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, "")
	}

	name, slug := current.Name, current.Slug
	if in.Name != nil {
		name = strings.TrimSpace(*in.Name)
	}
	if in.Slug != nil {
		slug = strings.TrimSpace(*in.Slug)
	}

	if errs := s.validator.ValidateCategory(name, slug); len(errs) > 0 {
		return nil, validationFailed(errs...)
	}

	exists, err := s.categories.NameOrSlugExists(ctx, name, slug, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrConflict, categoryConflictMessage)
	}

	fields := map[string]interface{}{"name": name, "slug": slug}
	if in.Description != nil {
		fields["description"] = *in.Description
	}

	var newImage string
	if in.Image != nil {
		newImage, err = s.images.UploadImage(ctx, *in.Image)
		if err != nil {
			return nil, err
		}
		fields["image"] = newImage
	}

	updated, err := s.categories.Update(ctx, id, fields)
	if err != nil {
		if newImage != "" {
			s.discardImage(ctx, newImage)
		}
		return nil, translateRepoError(err, categoryConflictMessage)
	}

	if newImage != "" && current.Image != nil && *current.Image != "" {
		s.discardImage(ctx, *current.Image)
	}

	s.log.Info("category updated", zap.Uint("category_id", id))
	return updated, nil
}

// Delete unlinks and removes a category and, best-effort, its image
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	current, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return translateRepoError(err, "")
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return translateRepoError(err, "")
	}

	if current.Image != nil && *current.Image != "" {
		s.discardImage(ctx, *current.Image)
	}

	s.log.Info("category deleted", zap.Uint("category_id", id))
	return nil
}

// Get returns a category by id
func (s *CategoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, "")
	}
	return category, nil
}

// List returns every category with its blog count.
// publishedOnly counts only published blogs.
func (s *CategoryService) List(ctx context.Context, publishedOnly bool) ([]models.CategoryWithCount, error) {
	return s.categories.ListWithCounts(ctx, publishedOnly)
}

// Page returns a category and one page of its published blogs
func (s *CategoryService) Page(ctx context.Context, slug string, page repositories.Page) (*CategoryPage, error) {
	category, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		return nil, translateRepoError(err, "")
	}

	blogs, err := s.blogs.List(ctx, repositories.BlogFilter{
		CategorySlug:  category.Slug,
		PublishedOnly: true,
		Page:          page,
	})
	if err != nil {
		return nil, err
	}

	return &CategoryPage{Category: category, Blogs: blogs}, nil
}

// CheckSlug reports whether slug is free. excludeID skips the category being edited.
func (s *CategoryService) CheckSlug(ctx context.Context, slug string, excludeID uint) (bool, error) {
	slug = strings.TrimSpace(slug)
	if err := validators.ValidateSlug(slug, "slug"); err != nil {
		return false, validationFailed(err)
	}

	exists, err := s.categories.SlugExists(ctx, slug, excludeID)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

func (s *CategoryService) discardImage(ctx context.Context, url string) {
	if err := s.images.DeleteByURL(context.WithoutCancel(ctx), url); err != nil {
		s.log.Warn("failed to delete category image", zap.String("url", url), zap.Error(err))
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
