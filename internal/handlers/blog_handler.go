package handlers

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/quillpress/api-backend/internal/middleware"
	"github.com/quillpress/api-backend/internal/models"
	"github.com/quillpress/api-backend/internal/repositories"
	"github.com/quillpress/api-backend/internal/services"
)

// AuthorView is the public face of a blog author
type AuthorView struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// BlogView is a blog with its author and categories
type BlogView struct {
	*models.Blog
	Author     *AuthorView       `json:"author,omitempty"`
	Categories []models.Category `json:"categories"`
}

// BlogDetailView is a published blog as shown to readers
type BlogDetailView struct {
	BlogView
	FAQs      []models.FAQ     `json:"faqs"`
	Comments  []models.Comment `json:"comments"`
	Likes     int64            `json:"likes"`
	Favorites int64            `json:"favorites"`
	Related   []*models.Blog   `json:"related"`
}

// BlogListResponse is one page of blogs
type BlogListResponse struct {
	Success     bool        `json:"success" example:"true"`
	Blogs       []*BlogView `json:"blogs"`
	Total       int64       `json:"total"`
	TotalPages  int         `json:"totalPages"`
	CurrentPage int         `json:"currentPage"`
}

// BlogResponse wraps a single blog
type BlogResponse struct {
	Success bool      `json:"success" example:"true"`
	Blog    *BlogView `json:"blog"`
}

// BlogDetailResponse wraps a published blog with engagement data
type BlogDetailResponse struct {
	Success bool            `json:"success" example:"true"`
	Blog    *BlogDetailView `json:"blog"`
}

// SuggestionResponse lists search-as-you-type matches
type SuggestionResponse struct {
	Success bool                          `json:"success" example:"true"`
	Blogs   []repositories.BlogSuggestion `json:"blogs"`
}

// SlugCheckResponse reports whether a slug is free
type SlugCheckResponse struct {
	IsUnique bool `json:"isUnique" example:"true"`
}

// StatusRequest toggles a blog between draft and published
type StatusRequest struct {
	Status *bool `json:"status" binding:"required"`
}

// BlogForm is the multipart body of a blog create
type BlogForm struct {
	Title           string                `form:"title" binding:"required,max=255"`
	Slug            string                `form:"slug" binding:"omitempty,max=255"`
	Content         string                `form:"content" binding:"required"`
	MetaTitle       *string               `form:"metaTitle" binding:"omitempty,max=255"`
	MetaDescription *string               `form:"metaDescription"`
	MetaKeywords    *string               `form:"metaKeywords"`
	ImageAlt        *string               `form:"imageAlt" binding:"omitempty,max=255"`
	CategoryIDs     string                `form:"categoryIds"`
	Status          string                `form:"status"`
	Image           *multipart.FileHeader `form:"image"`
}

// BlogUpdateForm is the partial multipart body of a blog update. Absent fields stay nil.
type BlogUpdateForm struct {
	Title           *string               `form:"title" binding:"omitempty,max=255"`
	Slug            *string               `form:"slug" binding:"omitempty,max=255"`
	Content         *string               `form:"content"`
	MetaTitle       *string               `form:"metaTitle" binding:"omitempty,max=255"`
	MetaDescription *string               `form:"metaDescription"`
	MetaKeywords    *string               `form:"metaKeywords"`
	ImageAlt        *string               `form:"imageAlt" binding:"omitempty,max=255"`
	CategoryIDs     *string               `form:"categoryIds"`
	Status          *string               `form:"status"`
	Image           *multipart.FileHeader `form:"image"`
}

// BlogHandler handles blog endpoints
type BlogHandler struct {
	blogs *services.BlogService
	log   *zap.Logger
}

// NewBlogHandler creates a new blog handler
func NewBlogHandler(blogs *services.BlogService, log *zap.Logger) *BlogHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &BlogHandler{blogs: blogs, log: log}
}

func newBlogView(blog *models.Blog) *BlogView {
	view := &BlogView{Blog: blog, Categories: blog.Categories}
	if view.Categories == nil {
		view.Categories = []models.Category{}
	}
	if blog.Author.ID != 0 {
		view.Author = &AuthorView{ID: blog.Author.ID, Username: blog.Author.Username, Name: blog.Author.DisplayName()}
	}
	return view
}

func newBlogListResponse(page *services.BlogPage) BlogListResponse {
	views := make([]*BlogView, 0, len(page.Blogs))
	for _, blog := range page.Blogs {
		views = append(views, newBlogView(blog))
	}
	return BlogListResponse{
		Success:     true,
		Blogs:       views,
		Total:       page.Total,
		TotalPages:  page.TotalPages,
		CurrentPage: page.CurrentPage,
	}
}

func newBlogDetailView(detail *services.BlogDetail) *BlogDetailView {
	view := &BlogDetailView{
		BlogView:  *newBlogView(detail.Blog),
		FAQs:      detail.Blog.FAQs,
		Comments:  detail.Blog.Comments,
		Likes:     detail.Likes,
		Favorites: detail.Favorites,
		Related:   make([]*models.Blog, 0, len(detail.Related)),
	}
	if view.FAQs == nil {
		view.FAQs = []models.FAQ{}
	}
	if view.Comments == nil {
		view.Comments = []models.Comment{}
	}
	for i := range detail.Related {
		view.Related = append(view.Related, &detail.Related[i])
	}
	return view
}

// ListPublished handles GET /api/blogs
// @Summary List published blogs
// @Description With suggest=1 returns at most 8 compact matches for search-as-you-type
// @Tags blogs
// @Produce json
// @Param search query string false "Title search"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param suggest query string false "Return compact suggestions"
// @Success 200 {object} BlogListResponse
// @Success 200 {object} SuggestionResponse "With suggest=1"
// @Router /api/blogs [get]
func (h *BlogHandler) ListPublished(c *gin.Context) {
	if c.Query("suggest") == "1" {
		suggestions, err := h.blogs.Suggest(c.Request.Context(), c.Query("search"))
		if err != nil {
			respondError(c, h.log, "Failed to search blogs", err)
			return
		}
		if suggestions == nil {
			suggestions = []repositories.BlogSuggestion{}
		}
		c.JSON(http.StatusOK, SuggestionResponse{Success: true, Blogs: suggestions})
		return
	}

	h.list(c, true)
}

// ListAll handles GET /api/admin/blogs
// @Summary List blogs including drafts
// @Tags admin-blogs
// @Security SessionCookie
// @Produce json
// @Param search query string false "Title search"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} BlogListResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /api/admin/blogs [get]
func (h *BlogHandler) ListAll(c *gin.Context) {
	h.list(c, false)
}

func (h *BlogHandler) list(c *gin.Context, publishedOnly bool) {
	page, err := h.blogs.List(c.Request.Context(), repositories.BlogFilter{
		Search:        c.Query("search"),
		PublishedOnly: publishedOnly,
		Page:          pageQuery(c),
	})
	if err != nil {
		respondError(c, h.log, "Failed to list blogs", err)
		return
	}

	c.JSON(http.StatusOK, newBlogListResponse(page))
}

// CheckSlug handles GET /api/blogs/check-slug
// @Summary Check whether a blog slug is free
// @Tags blogs
// @Produce json
// @Param slug query string true "Slug"
// @Param excludeId query int false "Blog being edited"
// @Success 200 {object} SlugCheckResponse
// @Failure 400 {object} ErrorResponse "Invalid slug"
// @Router /api/blogs/check-slug [get]
func (h *BlogHandler) CheckSlug(c *gin.Context) {
	excludeID, _ := strconv.ParseUint(c.Query("excludeId"), 10, 64)

	unique, err := h.blogs.CheckSlug(c.Request.Context(), c.Query("slug"), uint(excludeID))
	if err != nil {
		respondError(c, h.log, "Invalid slug", err)
		return
	}

	c.JSON(http.StatusOK, SlugCheckResponse{IsUnique: unique})
}

// Detail handles GET /api/blogs/:slug
// @Summary Get a published blog
// @Description Includes author, categories, FAQs, comments, like and favorite counts and related articles
// @Tags blogs
// @Produce json
// @Param slug path string true "Blog slug"
// @Success 200 {object} BlogDetailResponse
// @Failure 404 {object} ErrorResponse "Blog not found"
// @Router /api/blogs/{slug} [get]
func (h *BlogHandler) Detail(c *gin.Context) {
	detail, err := h.blogs.Detail(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.log, "Blog not found", err)
		return
	}

	c.JSON(http.StatusOK, BlogDetailResponse{Success: true, Blog: newBlogDetailView(detail)})
}

// Get handles GET /api/admin/blogs/:id
// @Summary Get a blog by id
// @Tags admin-blogs
// @Security SessionCookie
// @Produce json
// @Param id path int true "Blog ID"
// @Success 200 {object} BlogResponse
// @Failure 404 {object} ErrorResponse "Blog not found"
// @Router /api/admin/blogs/{id} [get]
func (h *BlogHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	blog, err := h.blogs.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, "Blog not found", err)
		return
	}

	c.JSON(http.StatusOK, BlogResponse{Success: true, Blog: newBlogView(blog)})
}

// Create handles POST /api/admin/blogs
// @Summary Create a blog
// @Description Multipart form. An empty slug is derived from the title. categoryIds is a comma separated list.
// @Tags admin-blogs
// @Security SessionCookie
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param slug formData string false "Slug"
// @Param content formData string true "Content"
// @Param metaTitle formData string false "Meta title"
// @Param metaDescription formData string false "Meta description"
// @Param metaKeywords formData string false "Comma separated keywords"
// @Param categoryIds formData string false "Comma separated category ids"
// @Param imageAlt formData string false "Image alt text"
// @Param status formData string false "published or draft"
// @Param image formData file false "Cover image"
// @Success 201 {object} BlogResponse
// @Failure 400 {object} ErrorResponse "Validation failed or slug taken"
// @Router /api/admin/blogs [post]
func (h *BlogHandler) Create(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		respondError(c, h.log, "Unauthorized", services.ErrAuthenticationFailed)
		return
	}
	authorID, err := claims.AccountID()
	if err != nil {
		respondError(c, h.log, "Unauthorized", services.ErrAuthenticationFailed)
		return
	}

	var form BlogForm
	if err := c.ShouldBind(&form); err != nil {
		respondBindingError(c, err)
		return
	}

	published, err := parseStatus(form.Status)
	if err != nil {
		respondError(c, h.log, "Validation failed", err)
		return
	}
	categoryIDs, err := parseIDList(form.CategoryIDs)
	if err != nil {
		respondError(c, h.log, "Validation failed", err)
		return
	}
	image, closer, err := openImage(form.Image)
	if err != nil {
		respondError(c, h.log, "Invalid image", err)
		return
	}
	defer closeQuietly(closer)

	blog, err := h.blogs.Create(c.Request.Context(), authorID, services.BlogInput{
		Title:           form.Title,
		Slug:            form.Slug,
		Content:         form.Content,
		MetaTitle:       nonEmpty(form.MetaTitle),
		MetaDescription: nonEmpty(form.MetaDescription),
		MetaKeywords:    nonEmpty(form.MetaKeywords),
		ImageAlt:        nonEmpty(form.ImageAlt),
		CategoryIDs:     categoryIDs,
		Published:       published,
		Image:           image,
	})
	if err != nil {
		respondError(c, h.log, "Failed to create blog", err)
		return
	}

	c.JSON(http.StatusCreated, BlogResponse{Success: true, Blog: newBlogView(blog)})
}

// Update handles PUT /api/admin/blogs/:id
// @Summary Update a blog
// @Description Partial multipart form. Fields that are not sent stay unchanged. A new image replaces the old one.
// @Tags admin-blogs
// @Security SessionCookie
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Blog ID"
// @Param title formData string false "Title"
// @Param slug formData string false "Slug"
// @Param content formData string false "Content"
// @Param categoryIds formData string false "Comma separated category ids"
// @Param status formData string false "published or draft"
// @Param image formData file false "Cover image"
// @Success 200 {object} BlogResponse
// @Failure 400 {object} ErrorResponse "Validation failed or slug taken"
// @Failure 404 {object} ErrorResponse "Blog not found"
// @Router /api/admin/blogs/{id} [put]
func (h *BlogHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var form BlogUpdateForm
	if err := c.ShouldBind(&form); err != nil {
		respondBindingError(c, err)
		return
	}

	upd := services.BlogUpdate{
		Title:           form.Title,
		Slug:            form.Slug,
		Content:         form.Content,
		MetaTitle:       form.MetaTitle,
		MetaDescription: form.MetaDescription,
		MetaKeywords:    form.MetaKeywords,
		ImageAlt:        form.ImageAlt,
	}
	if form.CategoryIDs != nil {
		ids, err := parseIDList(*form.CategoryIDs)
		if err != nil {
			respondError(c, h.log, "Validation failed", err)
			return
		}
		upd.CategoryIDs = &ids
	}
	if form.Status != nil {
		published, err := parseStatus(*form.Status)
		if err != nil {
			respondError(c, h.log, "Validation failed", err)
			return
		}
		upd.Published = &published
	}

	image, closer, err := openImage(form.Image)
	if err != nil {
		respondError(c, h.log, "Invalid image", err)
		return
	}
	defer closeQuietly(closer)
	upd.Image = image

	blog, err := h.blogs.Update(c.Request.Context(), id, upd)
	if err != nil {
		respondError(c, h.log, "Failed to update blog", err)
		return
	}

	c.JSON(http.StatusOK, BlogResponse{Success: true, Blog: newBlogView(blog)})
}

// SetStatus handles PATCH /api/admin/blogs/:id/status
// @Summary Publish or unpublish a blog
// @Tags admin-blogs
// @Security SessionCookie
// @Accept json
// @Produce json
// @Param id path int true "Blog ID"
// @Param request body StatusRequest true "New status"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse "Blog not found"
// @Router /api/admin/blogs/{id}/status [patch]
func (h *BlogHandler) SetStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	if err := h.blogs.SetStatus(c.Request.Context(), id, *req.Status); err != nil {
		respondError(c, h.log, "Failed to update status", err)
		return
	}

	message := "Blog moved to drafts"
	if *req.Status {
		message = "Blog published"
	}
	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: message})
}

// Delete handles DELETE /api/admin/blogs/:id
// @Summary Delete a blog
// @Description Also removes the stored cover image
// @Tags admin-blogs
// @Security SessionCookie
// @Produce json
// @Param id path int true "Blog ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse "Blog not found"
// @Router /api/admin/blogs/{id} [delete]
func (h *BlogHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.blogs.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, "Failed to delete blog", err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Blog deleted"})
}
