package templates

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillpress/api-backend/internal/models"
)

func TestRenderAdminStatus(t *testing.T) {
	r, err := NewTemplateRenderer()
	require.NoError(t, err)

	data := NewAdminStatusData("Jane", "jane", "approved", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	assert.True(t, data.Approved)

	html, err := r.RenderAdminStatusHTML(data)
	require.NoError(t, err)
	assert.Contains(t, html, "<strong>jane</strong>")
	assert.Contains(t, html, "sign in to the admin console")
	assert.Contains(t, html, "2026-01-02 03:04:05 UTC")

	text, err := r.RenderAdminStatusText(NewAdminStatusData("Jane", "jane", "rejected", time.Now()))
	require.NoError(t, err)
	assert.Contains(t, text, "is now rejected")
	assert.Contains(t, text, "Contact a super administrator")
}

func TestResolveTheme(t *testing.T) {
	assert.Equal(t, ThemeLight, ResolveTheme("light"))
	assert.Equal(t, ThemeDark, ResolveTheme("dark"))
	assert.Equal(t, ThemeSystem, ResolveTheme(""))
	assert.Equal(t, ThemeSystem, ResolveTheme("neon"))
}

func TestPageAdminIsSuper(t *testing.T) {
	var nobody *PageAdmin
	assert.False(t, nobody.IsSuper())
	assert.False(t, (&PageAdmin{Role: "admin"}).IsSuper())
	assert.True(t, (&PageAdmin{Role: "super-admin"}).IsSuper())
}

func TestLoadPages(t *testing.T) {
	tmpl, err := LoadPages()
	require.NoError(t, err)

	for _, name := range []string{
		"home.html", "blog.html", "category.html", "login.html",
		"admin_dashboard.html", "admin_blogs.html", "admin_users.html",
		"information.html", "error.html",
	} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}

	var buf strings.Builder
	err = tmpl.ExecuteTemplate(&buf, "information.html", PageData{
		PageContext: PageContext{Title: "About", Theme: ThemeDark, Admin: &PageAdmin{Username: "root", Role: "super-admin"}, Year: 2026},
		Data:        map[string]interface{}{"Page": &models.InformationPage{Title: "About", Content: "<p>Hello</p>"}},
	})
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, `data-theme="dark"`)
	assert.Contains(t, out, "Admin users")
	assert.Contains(t, out, "Sign out root")
	assert.Contains(t, out, "<p>Hello</p>")
	assert.Contains(t, out, "Default text")
}

func TestLoadPages_BlogContentIsSanitizedHTML(t *testing.T) {
	tmpl, err := LoadPages()
	require.NoError(t, err)

	blog := &models.Blog{
		Title:     "Hello",
		Content:   `<p>Hello <img src="http://cdn.test/x.png"></p><script>alert(1)</script><a href="javascript:alert(1)">x</a>`,
		Author:    models.AdminUser{Username: "jane"},
		CreatedAt: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
	}

	var buf strings.Builder
	err = tmpl.ExecuteTemplate(&buf, "blog.html", PageData{
		PageContext: PageContext{Title: "Hello", Theme: ThemeSystem, Year: 2026},
		Data:        map[string]interface{}{"Blog": blog},
	})
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "<p>Hello")
	assert.Contains(t, out, `<img src="http://cdn.test/x.png">`)
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "alert(1)")
	assert.NotContains(t, out, "&lt;p&gt;")
}

func TestExcerptStripsMarkup(t *testing.T) {
	assert.Equal(t, "Fish & chips", excerpt("<p>Fish &amp; <b>chips</b></p>", 50))
	assert.Equal(t, "Hello…", excerpt("<p>Hello world</p>", 5))
	assert.Equal(t, "", excerpt("<script>alert(1)</script>", 50))
}
