package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillpress/api-backend/internal/models"
	"github.com/quillpress/api-backend/internal/testutil"
)

func TestCategoryRepository_CreateAndFind(t *testing.T) {
	repo := NewCategoryRepository(testutil.NewDB(t))
	ctx := context.Background()

	category := &models.Category{Name: "Go", Slug: "go"}
	require.NoError(t, repo.Create(ctx, category))

	found, err := repo.FindBySlug(ctx, "go")
	require.NoError(t, err)
	assert.Equal(t, category.ID, found.ID)

	_, err = repo.FindBySlug(ctx, "rust")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Create(ctx, &models.Category{Name: "Go", Slug: "golang"}), ErrDuplicate)
	assert.ErrorIs(t, repo.Create(ctx, &models.Category{Name: "Golang", Slug: "go"}), ErrDuplicate)
}

func TestCategoryRepository_ListWithCounts(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	author := testutil.CreateAdmin(t, db, testutil.AdminFixture{Username: "author"})
	goCat := testutil.CreateCategory(t, db, "Go", "go")
	testutil.CreateCategory(t, db, "Empty", "empty")
	testutil.CreateBlog(t, db, author, "One", "one", true, goCat)
	testutil.CreateBlog(t, db, author, "Two", "two", false, goCat)

	all, err := repo.ListWithCounts(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Empty", all[0].Name)
	assert.Equal(t, int64(0), all[0].Posts)
	assert.Equal(t, "Go", all[1].Name)
	assert.Equal(t, int64(2), all[1].Posts)

	published, err := repo.ListWithCounts(ctx, true)
	require.NoError(t, err)
	require.Len(t, published, 2)
	assert.Equal(t, int64(1), published[1].Posts)
}

func TestCategoryRepository_Update(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	goCat := testutil.CreateCategory(t, db, "Go", "go")
	testutil.CreateCategory(t, db, "Web", "web")

	updated, err := repo.Update(ctx, goCat.ID, map[string]interface{}{"name": "Golang"})
	require.NoError(t, err)
	assert.Equal(t, "Golang", updated.Name)

	_, err = repo.Update(ctx, goCat.ID, map[string]interface{}{"slug": "web"})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = repo.Update(ctx, 9999, map[string]interface{}{"name": "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryRepository_DeleteUnlinks(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	author := testutil.CreateAdmin(t, db, testutil.AdminFixture{Username: "author"})
	goCat := testutil.CreateCategory(t, db, "Go", "go")
	blog := testutil.CreateBlog(t, db, author, "One", "one", true, goCat)

	require.NoError(t, repo.Delete(ctx, goCat.ID))
	assert.ErrorIs(t, repo.Delete(ctx, goCat.ID), ErrNotFound)

	found, err := NewBlogRepository(db).FindByID(ctx, blog.ID)
	require.NoError(t, err)
	assert.Empty(t, found.Categories, "blog survives with the category unlinked")
}

func TestCategoryRepository_Exists(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	goCat := testutil.CreateCategory(t, db, "Go", "go")

	exists, err := repo.SlugExists(ctx, "go", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.SlugExists(ctx, "go", goCat.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.NameOrSlugExists(ctx, "Go", "other", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.NameOrSlugExists(ctx, "Rust", "rust", 0)
	require.NoError(t, err)
	assert.False(t, exists)
}
