package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillpress/api-backend/internal/models"
	"github.com/quillpress/api-backend/internal/repositories"
	"github.com/quillpress/api-backend/internal/testutil"
)

func TestInformationService(t *testing.T) {
	svc, err := NewInformationService(repositories.NewInformationRepository(testutil.NewDB(t)), nil)
	require.NoError(t, err)
	ctx := context.Background()

	for _, kind := range models.InformationKinds {
		page, err := svc.Get(ctx, string(kind))
		require.NoError(t, err, kind)
		assert.Equal(t, kind, page.Kind)
		assert.NotEmpty(t, page.Title)
		assert.NotEmpty(t, page.Content)
		assert.True(t, page.UpdatedAt.IsZero(), "defaults are not stored")
	}

	updated, err := svc.Update(ctx, "terms", "  Terms  ", " <p>Be nice.</p> ")
	require.NoError(t, err)
	assert.Equal(t, "Terms", updated.Title)
	assert.Equal(t, "<p>Be nice.</p>", updated.Content)

	page, err := svc.Get(ctx, "terms")
	require.NoError(t, err)
	assert.Equal(t, "<p>Be nice.</p>", page.Content)
	assert.False(t, page.UpdatedAt.IsZero())

	_, err = svc.Update(ctx, "terms", "Terms", "   ")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Get(ctx, "careers")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Update(ctx, "careers", "Careers", "<p>Join</p>")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewInformationService_RequiresRepository(t *testing.T) {
	_, err := NewInformationService(nil, nil)
	assert.Error(t, err)
}
