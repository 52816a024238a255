package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/quillpress/api-backend/internal/crypto"
	"github.com/quillpress/api-backend/internal/database"
	"github.com/quillpress/api-backend/internal/models"
)

// NewDB opens a migrated in-memory database that is closed when the test ends
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.InitDB(database.TestConfig(), zap.NewNop())
	require.NoError(t, err, "failed to initialize test database")

	t.Cleanup(func() {
		_ = database.Close(db)
	})

	return db
}

// AdminFixture describes an admin account to insert
type AdminFixture struct {
	Username string
	Email    string
	Mobile   string
	Password string
	Status   models.AdminStatus
	Role     models.Role
	// LegacyOnly stores IsSuper without an explicit role
	LegacyOnly bool
}

// CreateAdmin inserts an admin account. Empty fields get approved, admin and "password" defaults.
func CreateAdmin(t testing.TB, db *gorm.DB, f AdminFixture) *models.AdminUser {
	t.Helper()

	if f.Password == "" {
		f.Password = "password"
	}
	if f.Status == "" {
		f.Status = models.AdminStatusApproved
	}
	if f.Role == "" {
		f.Role = models.RoleAdmin
	}

	hash, err := crypto.HashPassword(f.Password)
	require.NoError(t, err)

	admin := &models.AdminUser{
		Username: f.Username,
		Name:     f.Username,
		Password: hash,
		Status:   f.Status,
	}
	if f.Email != "" {
		admin.Email = &f.Email
	}
	if f.Mobile != "" {
		admin.Mobile = &f.Mobile
	}
	if f.LegacyOnly {
		admin.IsSuper = f.Role == models.RoleSuperAdmin
	} else {
		admin.SetRole(f.Role)
	}

	require.NoError(t, db.Create(admin).Error)
	return admin
}

// CreateCategory inserts a category with the given name and slug
func CreateCategory(t testing.TB, db *gorm.DB, name, slug string) *models.Category {
	t.Helper()

	category := &models.Category{Name: name, Slug: slug}
	require.NoError(t, db.Create(category).Error)
	return category
}

// CreateBlog inserts a blog owned by author and linked to categories
func CreateBlog(t testing.TB, db *gorm.DB, author *models.AdminUser, title, slug string, published bool, categories ...*models.Category) *models.Blog {
	t.Helper()

	blog := &models.Blog{
		Title:    title,
		Slug:     slug,
		Content:  "Content of " + title,
		Status:   published,
		AuthorID: author.ID,
	}
	for _, c := range categories {
		blog.Categories = append(blog.Categories, *c)
	}
	require.NoError(t, db.Create(blog).Error)
	return blog
}
