package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/quillpress/api-backend/internal/repositories"
)

// DashboardStats are the counters shown on the admin landing page
type DashboardStats struct {
	Blogs      int64 `json:"blogs"`
	Published  int64 `json:"published"`
	Categories int64 `json:"categories"`
	Comments   int64 `json:"comments"`
	Admins     int64 `json:"admins"`
}

// DashboardService aggregates console counters
type DashboardService struct {
	blogs      *repositories.BlogRepository
	categories *repositories.CategoryRepository
	comments   *repositories.CommentRepository
	admins     *repositories.AdminRepository
}

// NewDashboardService creates a new dashboard service instance
func NewDashboardService(
	blogs *repositories.BlogRepository,
	categories *repositories.CategoryRepository,
	comments *repositories.CommentRepository,
	admins *repositories.AdminRepository,
) (*DashboardService, error) {
	if blogs == nil || categories == nil || comments == nil || admins == nil {
		return nil, fmt.Errorf("all repositories are required")
	}

	return &DashboardService{blogs: blogs, categories: categories, comments: comments, admins: admins}, nil
}

// Stats counts blogs, published blogs, categories, comments and admins concurrently
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.Blogs, err = s.blogs.Count(gctx, false)
		return err
	})
	g.Go(func() (err error) {
		stats.Published, err = s.blogs.Count(gctx, true)
		return err
	})
	g.Go(func() (err error) {
		stats.Categories, err = s.categories.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Comments, err = s.comments.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Admins, err = s.admins.Count(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load dashboard stats: %w", err)
	}

	return stats, nil
}
