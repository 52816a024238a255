package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillpress/api-backend/internal/models"
	"github.com/quillpress/api-backend/internal/repositories"
	"github.com/quillpress/api-backend/internal/testutil"
)

func TestFAQService(t *testing.T) {
	db := testutil.NewDB(t)
	svc, err := NewFAQService(repositories.NewFAQRepository(db), nil)
	require.NoError(t, err)
	ctx := context.Background()

	author := testutil.CreateAdmin(t, db, testutil.AdminFixture{Username: "author"})
	blog := testutil.CreateBlog(t, db, author, "Post", "post", true)

	faq, err := svc.Create(ctx, blog.ID, "  Why Go? ", " Because. ")
	require.NoError(t, err)
	assert.Equal(t, "Why Go?", faq.Question)
	assert.Equal(t, "Because.", faq.Answer)

	_, err = svc.Create(ctx, blog.ID, "", "answer")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, 9999, "q", "a")
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := svc.Update(ctx, faq.ID, "Why not?", "No reason.")
	require.NoError(t, err)
	assert.Equal(t, "Why not?", updated.Question)

	faqs, err := svc.List(ctx, blog.ID)
	require.NoError(t, err)
	assert.Len(t, faqs, 1)

	require.NoError(t, svc.Delete(ctx, faq.ID))
	assert.ErrorIs(t, svc.Delete(ctx, faq.ID), ErrNotFound)
}

func TestCommentService(t *testing.T) {
	db := testutil.NewDB(t)
	blogs := repositories.NewBlogRepository(db)
	svc, err := NewCommentService(repositories.NewCommentRepository(db), blogs, nil)
	require.NoError(t, err)
	ctx := context.Background()

	author := testutil.CreateAdmin(t, db, testutil.AdminFixture{Username: "author"})
	first := testutil.CreateBlog(t, db, author, "First", "first", true)
	second := testutil.CreateBlog(t, db, author, "Second", "second", true)
	reader := &models.User{Name: "Reader", Email: "reader@example.com"}
	require.NoError(t, db.Create(reader).Error)

	base := time.Now().UTC()
	older := &models.Comment{BlogID: first.ID, UserID: reader.ID, Content: "old", CreatedAt: base.Add(-time.Hour)}
	newer := &models.Comment{BlogID: second.ID, UserID: reader.ID, Content: "new", CreatedAt: base}
	require.NoError(t, db.Create(older).Error)
	require.NoError(t, db.Create(newer).Error)

	page, err := svc.List(ctx, repositories.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Comments, 2)
	assert.Equal(t, "new", page.Comments[0].Content)
	assert.Equal(t, "Second", page.Comments[0].BlogTitle)
	assert.Equal(t, "Reader", page.Comments[0].User.Name)
	assert.Equal(t, "First", page.Comments[1].BlogTitle)

	require.NoError(t, svc.Delete(ctx, older.ID))
	assert.ErrorIs(t, svc.Delete(ctx, older.ID), ErrNotFound)
}

func TestDashboardService_Stats(t *testing.T) {
	db := testutil.NewDB(t)
	svc, err := NewDashboardService(
		repositories.NewBlogRepository(db),
		repositories.NewCategoryRepository(db),
		repositories.NewCommentRepository(db),
		repositories.NewAdminRepository(db),
	)
	require.NoError(t, err)

	author := testutil.CreateAdmin(t, db, testutil.AdminFixture{Username: "author"})
	testutil.CreateAdmin(t, db, testutil.AdminFixture{Username: "other"})
	testutil.CreateCategory(t, db, "Go", "go")
	blog := testutil.CreateBlog(t, db, author, "One", "one", true)
	testutil.CreateBlog(t, db, author, "Two", "two", false)
	reader := &models.User{Name: "Reader", Email: "reader@example.com"}
	require.NoError(t, db.Create(reader).Error)
	require.NoError(t, db.Create(&models.Comment{BlogID: blog.ID, UserID: reader.ID, Content: "hi"}).Error)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &DashboardStats{Blogs: 2, Published: 1, Categories: 1, Comments: 1, Admins: 2}, stats)
}

func TestNewDashboardService_RequiresRepositories(t *testing.T) {
	_, err := NewDashboardService(nil, nil, nil, nil)
	assert.Error(t, err)
}
