package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler of the server
type Handlers struct {
	Auth       *AuthHandler
	Blogs      *BlogHandler
	Categories *CategoryHandler
	Media      *MediaHandler
	Moderation *ModerationHandler
	Admins     *AdminUserHandler
	Pages      *PageHandler
	Health     *HealthHandler
	Cleanup    *CleanupHandler
	Info       *InformationHandler
}

// RegisterRoutes mounts every route on r. Access control is applied by the route authorizer middleware.
func RegisterRoutes(r *gin.Engine, h Handlers) {
	r.GET("/ping", PingHandler)
	if h.Health != nil {
		r.GET("/health", h.Health.Health)
	}

	authAPI := r.Group("/api/auth/admin")
	{
		authAPI.POST("/login", h.Auth.Login)
		authAPI.POST("/send-otp", h.Auth.SendOTP)
		authAPI.POST("/otp-login", h.Auth.OTPLogin)
		authAPI.POST("/logout", h.Auth.Logout)
	}

	public := r.Group("/api/blogs")
	{
		public.GET("", h.Blogs.ListPublished)
		public.GET("/check-slug", h.Blogs.CheckSlug)
		public.GET("/categories", h.Categories.List)
		public.GET("/categories/check-slug", h.Categories.CheckSlug)
		public.GET("/categories/:slug", h.Categories.Page)
		public.GET("/:slug", h.Blogs.Detail)
	}

	r.GET("/api/information/:page", h.Info.Get)

	admin := r.Group("/api/admin")
	{
		admin.GET("/blogs", h.Blogs.ListAll)
		admin.POST("/blogs", h.Blogs.Create)
		admin.GET("/blogs/:id", h.Blogs.Get)
		admin.PUT("/blogs/:id", h.Blogs.Update)
		admin.PATCH("/blogs/:id/status", h.Blogs.SetStatus)
		admin.DELETE("/blogs/:id", h.Blogs.Delete)
		admin.GET("/blogs/:id/faqs", h.Moderation.ListFAQs)
		admin.POST("/blogs/:id/faqs", h.Moderation.CreateFAQ)

		admin.PUT("/faqs/:id", h.Moderation.UpdateFAQ)
		admin.DELETE("/faqs/:id", h.Moderation.DeleteFAQ)

		admin.GET("/comments", h.Moderation.ListComments)
		admin.DELETE("/comments/:id", h.Moderation.DeleteComment)

		admin.GET("/categories", h.Categories.ListAll)
		admin.POST("/categories", h.Categories.Create)
		admin.GET("/categories/:id", h.Categories.Get)
		admin.PUT("/categories/:id", h.Categories.Update)
		admin.DELETE("/categories/:id", h.Categories.Delete)

		admin.GET("/media", h.Media.Library)
		admin.POST("/media", h.Media.Upload)

		admin.PUT("/information/:page", h.Info.Update)

		admin.GET("/admins", h.Admins.List)
		admin.POST("/admins/:id/status", h.Admins.UpdateStatus)

		if h.Cleanup != nil {
			admin.POST("/maintenance/otp-cleanup", h.Cleanup.CleanupExpiredChallenges)
		}
	}

	r.GET("/", h.Pages.Home)
	r.GET("/blogs/:slug", h.Pages.Blog)
	r.GET("/blogs/categories/:slug", h.Pages.Category)
	r.GET("/auth/admin/login", h.Pages.Login)

	pages := r.Group("/admin")
	{
		pages.GET("", h.Pages.Dashboard)
		pages.GET("/blogs", h.Pages.AdminBlogs)
		pages.GET("/admin-users", h.Pages.AdminUsers)
		pages.GET("/information/:page", h.Pages.Information)
	}

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found", Message: "no such endpoint"})
			return
		}
		h.Pages.NotFound(c)
	})
}
