package templates

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	text_template "text/template"
	"time"
)

//go:embed emails/*.html
var htmlTemplates embed.FS

//go:embed emails/*.txt
var textTemplates embed.FS

// TemplateRenderer manages loading and rendering of email templates
type TemplateRenderer struct {
	htmlTemplates *template.Template
	textTemplates *text_template.Template
}

// AdminStatusData holds data for the account status email
type AdminStatusData struct {
	Name               string
	Username           string
	Status             string
	Approved           bool
	ChangedAtFormatted string
}

// NewTemplateRenderer creates a new template renderer
func NewTemplateRenderer() (*TemplateRenderer, error) {
	htmlTmpl, err := template.ParseFS(htmlTemplates, "emails/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to load HTML templates: %w", err)
	}

	textTmpl, err := text_template.ParseFS(textTemplates, "emails/*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to load text templates: %w", err)
	}

	return &TemplateRenderer{
		htmlTemplates: htmlTmpl,
		textTemplates: textTmpl,
	}, nil
}

// RenderAdminStatusHTML renders the HTML email for an account status change
func (t *TemplateRenderer) RenderAdminStatusHTML(data AdminStatusData) (string, error) {
	var buf strings.Builder
	if err := t.htmlTemplates.ExecuteTemplate(&buf, "admin_status.html", data); err != nil {
		return "", fmt.Errorf("failed to render HTML template: %w", err)
	}

	return buf.String(), nil
}

// RenderAdminStatusText renders the text email for an account status change
func (t *TemplateRenderer) RenderAdminStatusText(data AdminStatusData) (string, error) {
	var buf strings.Builder
	if err := t.textTemplates.ExecuteTemplate(&buf, "admin_status.txt", data); err != nil {
		return "", fmt.Errorf("failed to render text template: %w", err)
	}

	return buf.String(), nil
}

// NewAdminStatusData fills the status email fields
func NewAdminStatusData(name, username, status string, changedAt time.Time) AdminStatusData {
	return AdminStatusData{
		Name:               name,
		Username:           username,
		Status:             status,
		Approved:           status == "approved",
		ChangedAtFormatted: changedAt.UTC().Format("2006-01-02 15:04:05 MST"),
	}
}
