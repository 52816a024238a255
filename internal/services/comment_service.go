package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/quillpress/api-backend/internal/models"
	"github.com/quillpress/api-backend/internal/repositories"
)

// CommentEntry is a comment with the title of the blog it belongs to
type CommentEntry struct {
	*models.Comment
	BlogTitle string `json:"blogTitle"`
}

// CommentPage is one page of the moderation queue
type CommentPage struct {
	Comments    []CommentEntry `json:"comments"`
	Total       int64          `json:"total"`
	TotalPages  int            `json:"totalPages"`
	CurrentPage int            `json:"currentPage"`
}

// CommentService lists and moderates reader comments
type CommentService struct {
	comments *repositories.CommentRepository
	blogs    *repositories.BlogRepository
	log      *zap.Logger
}

// NewCommentService creates a new comment service instance
func NewCommentService(comments *repositories.CommentRepository, blogs *repositories.BlogRepository, log *zap.Logger) (*CommentService, error) {
	if comments == nil {
		return nil, fmt.Errorf("comment repository is required")
	}
	if blogs == nil {
		return nil, fmt.Errorf("blog repository is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &CommentService{comments: comments, blogs: blogs, log: log}, nil
}

// List returns a page of comments across all blogs, newest first
func (s *CommentService) List(ctx context.Context, page repositories.Page) (*CommentPage, error) {
	page = page.Normalize()

	comments, total, err := s.comments.List(ctx, 0, page)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.BlogID)
	}
	titles, err := s.blogs.Titles(ctx, ids)
	if err != nil {
		return nil, err
	}

	entries := make([]CommentEntry, 0, len(comments))
	for _, c := range comments {
		entries = append(entries, CommentEntry{Comment: c, BlogTitle: titles[c.BlogID]})
	}

	return &CommentPage{
		Comments:    entries,
		Total:       total,
		TotalPages:  totalPages(total, page.Limit),
		CurrentPage: page.Page,
	}, nil
}

// Delete removes a comment
func (s *CommentService) Delete(ctx context.Context, id uint) error {
	if err := s.comments.Delete(ctx, id); err != nil {
		return translateRepoError(err, "")
	}

	s.log.Info("comment deleted", zap.Uint("comment_id", id))
	return nil
}
