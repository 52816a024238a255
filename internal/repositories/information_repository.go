package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/quillpress/api-backend/internal/models"
)

// InformationRepository handles database operations for site information pages
type InformationRepository struct {
	db *gorm.DB
}

// NewInformationRepository creates a new information page repository instance
func NewInformationRepository(db *gorm.DB) *InformationRepository {
	return &InformationRepository{db: db}
}

// FindByKind retrieves the stored page of a kind
func (r *InformationRepository) FindByKind(ctx context.Context, kind models.InformationKind) (*models.InformationPage, error) {
	var page models.InformationPage
	if err := r.db.WithContext(ctx).Where("kind = ?", kind).First(&page).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find information page: %w", err)
	}

	return &page, nil
}

// Upsert stores the title and content of a kind, creating the row on first save
func (r *InformationRepository) Upsert(ctx context.Context, page *models.InformationPage) error {
	if page == nil {
		return fmt.Errorf("information page cannot be nil")
	}

	now := time.Now().UTC()
	page.UpdatedAt = now
	if page.CreatedAt.IsZero() {
		page.CreatedAt = now
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kind"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "content", "updated_at"}),
	}).Create(page).Error
	if err != nil {
		return fmt.Errorf("failed to save information page: %w", err)
	}

	return nil
}
