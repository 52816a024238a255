package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/quillpress/api-backend/internal/middleware"
	"github.com/quillpress/api-backend/internal/repositories"
	"github.com/quillpress/api-backend/internal/services"
	"github.com/quillpress/api-backend/internal/templates"
)

// ThemeCookieName holds the reader's colour scheme
const ThemeCookieName = "theme"

// PageHandler renders the server-side pages
type PageHandler struct {
	blogs      *services.BlogService
	categories *services.CategoryService
	dashboard  *services.DashboardService
	admins     *services.AdminUserService
	info       *services.InformationService
	log        *zap.Logger
}

// NewPageHandler creates a new page handler
func NewPageHandler(
	blogs *services.BlogService,
	categories *services.CategoryService,
	dashboard *services.DashboardService,
	admins *services.AdminUserService,
	info *services.InformationService,
	log *zap.Logger,
) *PageHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &PageHandler{blogs: blogs, categories: categories, dashboard: dashboard, admins: admins, info: info, log: log}
}

// pageContext builds the context every template receives
func pageContext(c *gin.Context, title string) templates.PageContext {
	theme, _ := c.Cookie(ThemeCookieName)
	ctx := templates.PageContext{
		Title: title,
		Theme: templates.ResolveTheme(theme),
		Year:  time.Now().Year(),
	}

	if claims, ok := middleware.ClaimsFromContext(c); ok {
		id, _ := claims.AccountID()
		ctx.Admin = &templates.PageAdmin{ID: id, Username: claims.Username, Role: claims.Role}
	}
	return ctx
}

func render(c *gin.Context, status int, name, title string, data interface{}) {
	c.HTML(status, name, templates.PageData{PageContext: pageContext(c, title), Data: data})
}

// renderError shows the error page, mapping not-found errors onto 404
func (h *PageHandler) renderError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrNotFound) {
		render(c, http.StatusNotFound, "error.html", "Not Found", gin.H{"Message": "The page you are looking for does not exist."})
		return
	}
	h.log.Error("failed to render page", zap.String("path", c.Request.URL.Path), zap.Error(err))
	render(c, http.StatusInternalServerError, "error.html", "Error", gin.H{"Message": "Something went wrong."})
}

// Home handles GET /
func (h *PageHandler) Home(c *gin.Context) {
	search := c.Query("search")
	page, err := h.blogs.List(c.Request.Context(), repositories.BlogFilter{
		Search:        search,
		PublishedOnly: true,
		Page:          pageQuery(c),
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	categories, err := h.categories.List(c.Request.Context(), true)
	if err != nil {
		h.renderError(c, err)
		return
	}

	render(c, http.StatusOK, "home.html", "Latest articles", gin.H{
		"Blogs":      page.Blogs,
		"Categories": categories,
		"Search":     search,
	})
}

// Blog handles GET /blogs/:slug
func (h *PageHandler) Blog(c *gin.Context) {
	detail, err := h.blogs.Detail(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	render(c, http.StatusOK, "blog.html", detail.Blog.Title, detail)
}

// Category handles GET /blogs/categories/:slug
func (h *PageHandler) Category(c *gin.Context) {
	page, err := h.categories.Page(c.Request.Context(), c.Param("slug"), pageQuery(c))
	if err != nil {
		h.renderError(c, err)
		return
	}

	render(c, http.StatusOK, "category.html", page.Category.Name, gin.H{
		"Category": page.Category,
		"Blogs":    page.Blogs.Blogs,
	})
}

// Login handles GET /auth/admin/login
func (h *PageHandler) Login(c *gin.Context) {
	if _, ok := middleware.ClaimsFromContext(c); ok {
		c.Redirect(http.StatusSeeOther, middleware.LandingPath)
		return
	}
	render(c, http.StatusOK, "login.html", "Admin sign in", gin.H{"Error": c.Query("error") != ""})
}

// Dashboard handles GET /admin
func (h *PageHandler) Dashboard(c *gin.Context) {
	stats, err := h.dashboard.Stats(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	render(c, http.StatusOK, "admin_dashboard.html", "Dashboard", stats)
}

// AdminBlogs handles GET /admin/blogs
func (h *PageHandler) AdminBlogs(c *gin.Context) {
	page, err := h.blogs.List(c.Request.Context(), repositories.BlogFilter{
		Search: c.Query("search"),
		Page:   pageQuery(c),
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	render(c, http.StatusOK, "admin_blogs.html", "Blogs", gin.H{
		"Blogs":      page.Blogs,
		"Page":       page.CurrentPage,
		"TotalPages": page.TotalPages,
	})
}

// AdminUsers handles GET /admin/admin-users
func (h *PageHandler) AdminUsers(c *gin.Context) {
	admins, err := h.admins.List(c.Request.Context())
	if err != nil {
		h.renderError(c, err)
		return
	}
	render(c, http.StatusOK, "admin_users.html", "Admin users", gin.H{"Admins": admins})
}

// Information handles GET /admin/information/:page
func (h *PageHandler) Information(c *gin.Context) {
	page, err := h.info.Get(c.Request.Context(), c.Param("page"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	render(c, http.StatusOK, "information.html", page.Title, gin.H{"Page": page})
}

// NotFound renders the error page for unknown routes
func (h *PageHandler) NotFound(c *gin.Context) {
	h.renderError(c, services.ErrNotFound)
}
