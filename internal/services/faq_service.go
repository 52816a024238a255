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

// FAQService manages the question/answer pairs of blogs
type FAQService struct {
	faqs      *repositories.FAQRepository
	validator *validators.FAQValidator
	log       *zap.Logger
}

// NewFAQService creates a new FAQ service instance
func NewFAQService(faqs *repositories.FAQRepository, log *zap.Logger) (*FAQService, error) {
	if faqs == nil {
		return nil, fmt.Errorf("faq repository is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &FAQService{faqs: faqs, validator: &validators.FAQValidator{}, log: log}, nil
}

// List returns the FAQs of a blog
func (s *FAQService) List(ctx context.Context, blogID uint) ([]*models.FAQ, error) {
	return s.faqs.ListByBlog(ctx, blogID)
}

// Create adds a FAQ to a blog
func (s *FAQService) Create(ctx context.Context, blogID uint, question, answer string) (*models.FAQ, error) {
	question, answer = strings.TrimSpace(question), strings.TrimSpace(answer)
	if errs := s.validator.ValidateFAQ(question, answer); len(errs) > 0 {
		return nil, validationFailed(errs...)
	}

	faq := &models.FAQ{BlogID: blogID, Question: question, Answer: answer}
	if err := s.faqs.Create(ctx, faq); err != nil {
		return nil, translateRepoError(err, "")
	}

	s.log.Info("faq created", zap.Uint("faq_id", faq.ID), zap.Uint("blog_id", blogID))
	return faq, nil
}

// Update replaces the question and answer of a FAQ
func (s *FAQService) Update(ctx context.Context, id uint, question, answer string) (*models.FAQ, error) {
	question, answer = strings.TrimSpace(question), strings.TrimSpace(answer)
	if errs := s.validator.ValidateFAQ(question, answer); len(errs) > 0 {
		return nil, validationFailed(errs...)
	}

	faq, err := s.faqs.Update(ctx, id, question, answer)
	if err != nil {
		return nil, translateRepoError(err, "")
	}
	return faq, nil
}

// Delete removes a FAQ
func (s *FAQService) Delete(ctx context.Context, id uint) error {
	if err := s.faqs.Delete(ctx, id); err != nil {
		return translateRepoError(err, "")
	}

	s.log.Info("faq deleted", zap.Uint("faq_id", id))
	return nil
}
