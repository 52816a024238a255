package templates

import (
	"embed"
	"fmt"
	"html"
	"html/template"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

//go:embed pages/*.html
var pageTemplates embed.FS

// Blog bodies are editor HTML. UGC markup is kept for the article view and
// stripped entirely for excerpts.
var (
	contentPolicy = bluemonday.UGCPolicy()
	textPolicy    = bluemonday.StrictPolicy()
)

// Themes accepted from the theme cookie
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// PageAdmin is the signed-in admin as seen by templates
type PageAdmin struct {
	ID       uint
	Username string
	Role     string
}

// IsSuper reports whether the admin may see super-admin navigation
func (a *PageAdmin) IsSuper() bool {
	return a != nil && a.Role == "super-admin"
}

// PageContext is passed explicitly to every page template
type PageContext struct {
	Title string
	Theme string
	Admin *PageAdmin
	Year  int
}

// PageData is the root value of a page template
type PageData struct {
	PageContext
	Data interface{}
}

// ResolveTheme maps a cookie value to a theme, defaulting to system
func ResolveTheme(cookie string) string {
	switch cookie {
	case ThemeLight, ThemeDark:
		return cookie
	default:
		return ThemeSystem
	}
}

// LoadPages parses the embedded page templates for use with gin's HTML renderer
func LoadPages() (*template.Template, error) {
	tmpl, err := template.New("pages").Funcs(template.FuncMap{
		"date":        func(t time.Time) string { return t.Format("Jan 2, 2006") },
		"excerpt":     excerpt,
		"safeContent": SafeContent,
	}).ParseFS(pageTemplates, "pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to load page templates: %w", err)
	}

	return tmpl, nil
}

// SafeContent sanitizes blog HTML so it can be rendered unescaped
func SafeContent(s string) template.HTML {
	return template.HTML(contentPolicy.Sanitize(s))
}

// excerpt returns the first n runes of the plain text of s
func excerpt(s string, n int) string {
	text := strings.Join(strings.Fields(html.UnescapeString(textPolicy.Sanitize(s))), " ")
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}
