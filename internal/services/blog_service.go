package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/quillpress/api-backend/internal/models"
	"github.com/quillpress/api-backend/internal/repositories"
	"github.com/quillpress/api-backend/internal/validators"
)

// MaxSuggestions caps search-as-you-type results
const MaxSuggestions = 8

// ImageStore uploads and removes public images
type ImageStore interface {
	UploadImage(ctx context.Context, upload Upload) (string, error)
	DeleteByURL(ctx context.Context, url string) error
}

// BlogInput carries the fields of a new blog. An empty Slug is derived from Title.
type BlogInput struct {
	Title           string
	Slug            string
	Content         string
	MetaTitle       *string
	MetaDescription *string
	MetaKeywords    *string
	ImageAlt        *string
	CategoryIDs     []uint
	Published       bool
	Image           *Upload
}

// BlogUpdate carries a partial blog update. Nil fields are left unchanged.
type BlogUpdate struct {
	Title           *string
	Slug            *string
	Content         *string
	MetaTitle       *string
	MetaDescription *string
	MetaKeywords    *string
	ImageAlt        *string
	CategoryIDs     *[]uint
	Published       *bool
	Image           *Upload
}

// BlogDetail is a published blog with its engagement counts
type BlogDetail struct {
	Blog      *models.Blog
	Likes     int64
	Favorites int64
	Related   []models.Blog
}

// BlogPage is one page of a blog listing
type BlogPage struct {
	Blogs       []*models.Blog
	Total       int64
	TotalPages  int
	CurrentPage int
}

// BlogService manages blogs and their images
type BlogService struct {
	blogs     *repositories.BlogRepository
	images    ImageStore
	validator *validators.BlogValidator
	log       *zap.Logger
}

// NewBlogService creates a new blog service instance
func NewBlogService(blogs *repositories.BlogRepository, images ImageStore, log *zap.Logger) (*BlogService, error) {
	if blogs == nil {
		return nil, fmt.Errorf("blog repository is required")
	}
	if images == nil {
		return nil, fmt.Errorf("image store is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &BlogService{
		blogs:     blogs,
		images:    images,
		validator: &validators.BlogValidator{},
		log:       log,
	}, nil
}

// Create validates and stores a blog written by authorID
func (s *BlogService) Create(ctx context.Context, authorID uint, in BlogInput) (*models.Blog, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	if in.Slug == "" {
		in.Slug = validators.Slugify(in.Title)
	}

	if errs := s.validator.ValidateBlogCreation(in.Title, in.Slug, in.Content); len(errs) > 0 {
		return nil, validationFailed(errs...)
	}
	if err := s.ensureSlugFree(ctx, in.Slug, 0); err != nil {
		return nil, err
	}

	blog := &models.Blog{
		Title:           in.Title,
		Slug:            in.Slug,
		Content:         in.Content,
		MetaTitle:       in.MetaTitle,
		MetaDescription: in.MetaDescription,
		MetaKeywords:    in.MetaKeywords,
		ImageAlt:        in.ImageAlt,
		Status:          in.Published,
		AuthorID:        authorID,
	}

	if in.Image != nil {
		url, err := s.images.UploadImage(ctx, *in.Image)
		if err != nil {
			return nil, err
		}
		blog.Image = &url
	}

	if err := s.blogs.Create(ctx, blog, in.CategoryIDs); err != nil {
		if blog.Image != nil {
			s.discardImage(ctx, *blog.Image)
		}
		return nil, translateRepoError(err, "slug already exists")
	}

	s.log.Info("blog created", zap.Uint("blog_id", blog.ID), zap.String("slug", blog.Slug), zap.Uint("author_id", authorID))
	return s.Get(ctx, blog.ID)
}

// Update applies a partial update. A new image replaces and deletes the old one.
func (s *BlogService) Update(ctx context.Context, id uint, upd BlogUpdate) (*models.Blog, error) {
	current, err := s.blogs.FindByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, "")
	}

	if upd.Title != nil {
		trimmed := strings.TrimSpace(*upd.Title)
		upd.Title = &trimmed
	}
	if upd.Slug != nil {
		trimmed := strings.TrimSpace(*upd.Slug)
		upd.Slug = &trimmed
	}

	if errs := s.validator.ValidateBlogUpdate(upd.Title, upd.Slug, upd.Content); len(errs) > 0 {
		return nil, validationFailed(errs...)
	}
	if upd.Slug != nil && *upd.Slug != current.Slug {
		if err := s.ensureSlugFree(ctx, *upd.Slug, id); err != nil {
			return nil, err
		}
	}

	fields := map[string]interface{}{}
	setString := func(column string, value *string) {
		if value != nil {
			fields[column] = *value
		}
	}
	setString("title", upd.Title)
	setString("slug", upd.Slug)
	setString("content", upd.Content)
	setString("meta_title", upd.MetaTitle)
	setString("meta_description", upd.MetaDescription)
	setString("meta_keywords", upd.MetaKeywords)
	setString("image_alt", upd.ImageAlt)
	if upd.Published != nil {
		fields["status"] = *upd.Published
	}

	var newImage string
	if upd.Image != nil {
		newImage, err = s.images.UploadImage(ctx, *upd.Image)
		if err != nil {
			return nil, err
		}
		fields["image"] = newImage
	}

	updated, err := s.blogs.Update(ctx, id, fields, upd.CategoryIDs)
	if err != nil {
		if newImage != "" {
			s.discardImage(ctx, newImage)
		}
		return nil, translateRepoError(err, "slug already exists")
	}

	if newImage != "" && current.Image != nil && *current.Image != "" {
		s.discardImage(ctx, *current.Image)
	}

	s.log.Info("blog updated", zap.Uint("blog_id", id))
	return updated, nil
}

// SetStatus publishes or unpublishes a blog
func (s *BlogService) SetStatus(ctx context.Context, id uint, published bool) error {
	if err := s.blogs.SetStatus(ctx, id, published); err != nil {
		return translateRepoError(err, "")
	}

	s.log.Info("blog status changed", zap.Uint("blog_id", id), zap.Bool("published", published))
	return nil
}

// Delete removes a blog and, best-effort, its image
func (s *BlogService) Delete(ctx context.Context, id uint) error {
	blog, err := s.blogs.Delete(ctx, id)
	if err != nil {
		return translateRepoError(err, "")
	}

	if blog.Image != nil && *blog.Image != "" {
		s.discardImage(ctx, *blog.Image)
	}

	s.log.Info("blog deleted", zap.Uint("blog_id", id))
	return nil
}

// Get returns a blog by id regardless of status
func (s *BlogService) Get(ctx context.Context, id uint) (*models.Blog, error) {
	blog, err := s.blogs.FindByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, "")
	}
	return blog, nil
}

// List returns a page of blogs
func (s *BlogService) List(ctx context.Context, filter repositories.BlogFilter) (*BlogPage, error) {
	filter.Page = filter.Page.Normalize()

	blogs, total, err := s.blogs.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &BlogPage{
		Blogs:       blogs,
		Total:       total,
		TotalPages:  totalPages(total, filter.Page.Limit),
		CurrentPage: filter.Page.Page,
	}, nil
}

// Suggest returns at most MaxSuggestions published blogs whose title matches
func (s *BlogService) Suggest(ctx context.Context, search string) ([]repositories.BlogSuggestion, error) {
	return s.blogs.Suggest(ctx, search, MaxSuggestions)
}

// CheckSlug reports whether slug is free. excludeID skips the blog being edited.
func (s *BlogService) CheckSlug(ctx context.Context, slug string, excludeID uint) (bool, error) {
	slug = strings.TrimSpace(slug)
	if err := validators.ValidateSlug(slug, "slug"); err != nil {
		return false, validationFailed(err)
	}

	exists, err := s.blogs.SlugExists(ctx, slug, excludeID)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// Detail returns a published blog with likes, favorites and published related articles
func (s *BlogService) Detail(ctx context.Context, slug string) (*BlogDetail, error) {
	blog, err := s.blogs.FindBySlug(ctx, slug, true)
	if err != nil {
		return nil, translateRepoError(err, "")
	}

	detail := &BlogDetail{Blog: blog, Related: []models.Blog{}}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		detail.Likes, err = s.blogs.CountLikes(gctx, blog.ID)
		return err
	})
	g.Go(func() error {
		var err error
		detail.Favorites, err = s.blogs.CountFavorites(gctx, blog.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, relation := range blog.Relations {
		if relation.RelatedBlog.ID != 0 && relation.RelatedBlog.IsPublished() {
			detail.Related = append(detail.Related, relation.RelatedBlog)
		}
	}

	return detail, nil
}

func (s *BlogService) ensureSlugFree(ctx context.Context, slug string, excludeID uint) error {
	exists, err := s.blogs.SlugExists(ctx, slug, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: slug already exists", ErrConflict)
	}
	return nil
}

// discardImage deletes an image without failing the caller
func (s *BlogService) discardImage(ctx context.Context, url string) {
	if err := s.images.DeleteByURL(context.WithoutCancel(ctx), url); err != nil {
		s.log.Warn("failed to delete blog image", zap.String("url", url), zap.Error(err))
	}
}
