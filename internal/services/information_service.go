package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/quillpress/api-backend/internal/models"
	"github.com/quillpress/api-backend/internal/repositories"
	"github.com/quillpress/api-backend/internal/validators"
)

// defaultInformation is shown until an admin saves a page
var defaultInformation = map[models.InformationKind]models.InformationPage{
	models.InformationAbout: {
		Title:   "About",
		Content: "<p>Quillpress is a small publishing platform for articles, categories and FAQs.</p>",
	},
	models.InformationTerms: {
		Title:   "Terms of Service",
		Content: "<p>Content on this site is provided as is. Administrators are responsible for what they publish.</p>",
	},
	models.InformationPrivacy: {
		Title:   "Privacy Policy",
		Content: "<p>We store the account details needed to run the admin console and nothing else.</p>",
	},
}

// InformationService manages the about, terms and privacy pages
type InformationService struct {
	pages     *repositories.InformationRepository
	validator *validators.InformationValidator
	log       *zap.Logger
}

// NewInformationService creates a new information page service instance
func NewInformationService(pages *repositories.InformationRepository, log *zap.Logger) (*InformationService, error) {
	if pages == nil {
		return nil, fmt.Errorf("information repository is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &InformationService{pages: pages, validator: &validators.InformationValidator{}, log: log}, nil
}

// Get returns the stored page of a kind, or its default when none was saved.
// An unknown kind is ErrNotFound.
func (s *InformationService) Get(ctx context.Context, kind string) (*models.InformationPage, error) {
	k, ok := models.ParseInformationKind(kind)
	if !ok {
		return nil, fmt.Errorf("%w: information page %q", ErrNotFound, kind)
	}

	page, err := s.pages.FindByKind(ctx, k)
	if errors.Is(err, repositories.ErrNotFound) {
		fallback := defaultInformation[k]
		fallback.Kind = k
		return &fallback, nil
	}
	if err != nil {
		return nil, err
	}

	return page, nil
}

// Update replaces the title and content of a page
func (s *InformationService) Update(ctx context.Context, kind, title, content string) (*models.InformationPage, error) {
	k, ok := models.ParseInformationKind(kind)
	if !ok {
		return nil, fmt.Errorf("%w: information page %q", ErrNotFound, kind)
	}

	title, content = strings.TrimSpace(title), strings.TrimSpace(content)
	if errs := s.validator.ValidateInformation(title, content); len(errs) > 0 {
		return nil, validationFailed(errs...)
	}

	if err := s.pages.Upsert(ctx, &models.InformationPage{Kind: k, Title: title, Content: content}); err != nil {
		return nil, err
	}

	s.log.Info("information page updated", zap.String("kind", string(k)))
	return s.pages.FindByKind(ctx, k)
}
