package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/quillpress/api-backend/internal/models"
	"github.com/quillpress/api-backend/internal/services"
	"github.com/quillpress/api-backend/internal/validators"
)

// CategoryListResponse lists categories with their post counts
type CategoryListResponse struct {
	Success    bool                       `json:"success" example:"true"`
	Categories []models.CategoryWithCount `json:"categories"`
}

// CategoryResponse wraps a single category
type CategoryResponse struct {
	Success  bool             `json:"success" example:"true"`
	Category *models.Category `json:"category"`
}

// CategoryPageResponse is a category with one page of its published blogs
type CategoryPageResponse struct {
	Success  bool             `json:"success" example:"true"`
	Category *models.Category `json:"category"`
	BlogListResponse
}

// CategoryHandler handles category endpoints
type CategoryHandler struct {
	categories *services.CategoryService
	log        *zap.Logger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categories *services.CategoryService, log *zap.Logger) *CategoryHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &CategoryHandler{categories: categories, log: log}
}

// List handles GET /api/blogs/categories
// @Summary List categories
// @Description Ordered by name. posts counts published blogs only.
// @Tags categories
// @Produce json
// @Success 200 {object} CategoryListResponse
// @Router /api/blogs/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context(), true)
	if err != nil {
		respondError(c, h.log, "Failed to list categories", err)
		return
	}
	if categories == nil {
		categories = []models.CategoryWithCount{}
	}

	c.JSON(http.StatusOK, CategoryListResponse{Success: true, Categories: categories})
}

// Page handles GET /api/blogs/categories/:slug
// @Summary Get a category and its published blogs
// @Tags categories
// @Produce json
// @Param slug path string true "Category slug"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} CategoryPageResponse
// @Failure 404 {object} ErrorResponse "Category not found"
// @Router /api/blogs/categories/{slug} [get]
func (h *CategoryHandler) Page(c *gin.Context) {
	page, err := h.categories.Page(c.Request.Context(), c.Param("slug"), pageQuery(c))
	if err != nil {
		respondError(c, h.log, "Category not found", err)
		return
	}

	c.JSON(http.StatusOK, CategoryPageResponse{
		Success:          true,
		Category:         page.Category,
		BlogListResponse: newBlogListResponse(page.Blogs),
	})
}

// CheckSlug handles GET /api/blogs/categories/check-slug
// @Summary Check whether a category slug is free
// @Tags categories
// @Produce json
// @Param slug query string true "Slug"
// @Param excludeId query int false "Category being edited"
// @Success 200 {object} SlugCheckResponse
// @Failure 400 {object} ErrorResponse "Invalid slug"
// @Router /api/blogs/categories/check-slug [get]
func (h *CategoryHandler) CheckSlug(c *gin.Context) {
	excludeID, _ := strconv.ParseUint(c.Query("excludeId"), 10, 64)

	unique, err := h.categories.CheckSlug(c.Request.Context(), c.Query("slug"), uint(excludeID))
	if err != nil {
		respondError(c, h.log, "Invalid slug", err)
		return
	}

	c.JSON(http.StatusOK, SlugCheckResponse{IsUnique: unique})
}

// ListAll handles GET /api/admin/categories
// @Summary List categories with all posts counted
// @Tags admin-categories
// @Security SessionCookie
// @Produce json
// @Success 200 {object} CategoryListResponse
// @Router /api/admin/categories [get]
func (h *CategoryHandler) ListAll(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context(), false)
	if err != nil {
		respondError(c, h.log, "Failed to list categories", err)
		return
	}
	if categories == nil {
		categories = []models.CategoryWithCount{}
	}

	c.JSON(http.StatusOK, CategoryListResponse{Success: true, Categories: categories})
}

// Get handles GET /api/admin/categories/:id
// @Summary Get a category by id
// @Tags admin-categories
// @Security SessionCookie
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} CategoryResponse
// @Failure 404 {object} ErrorResponse "Category not found"
// @Router /api/admin/categories/{id} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	category, err := h.categories.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, "Category not found", err)
		return
	}

	c.JSON(http.StatusOK, CategoryResponse{Success: true, Category: category})
}

// Create handles POST /api/admin/categories
// @Summary Create a category
// @Tags admin-categories
// @Security SessionCookie
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Name"
// @Param slug formData string false "Slug"
// @Param description formData string false "Description"
// @Param image formData file false "Image"
// @Success 201 {object} CategoryResponse
// @Failure 400 {object} ErrorResponse "Category name or slug already exists"
// @Router /api/admin/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	in, closer, err := categoryInput(c)
	if err != nil {
		respondError(c, h.log, "Invalid request", err)
		return
	}
	defer closeQuietly(closer)

	category, err := h.categories.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.log, "Failed to create category", err)
		return
	}

	c.JSON(http.StatusCreated, CategoryResponse{Success: true, Category: category})
}

// Update handles PUT /api/admin/categories/:id
// @Summary Update a category
// @Description Partial multipart form. A new image replaces the old one.
// @Tags admin-categories
// @Security SessionCookie
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Category ID"
// @Param name formData string false "Name"
// @Param slug formData string false "Slug"
// @Param description formData string false "Description"
// @Param image formData file false "Image"
// @Success 200 {object} CategoryResponse
// @Failure 400 {object} ErrorResponse "Category name or slug already exists"
// @Failure 404 {object} ErrorResponse "Category not found"
// @Router /api/admin/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	in, closer, err := categoryInput(c)
	if err != nil {
		respondError(c, h.log, "Invalid request", err)
		return
	}
	defer closeQuietly(closer)

	category, err := h.categories.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, h.log, "Failed to update category", err)
		return
	}

	c.JSON(http.StatusOK, CategoryResponse{Success: true, Category: category})
}

// Delete handles DELETE /api/admin/categories/:id
// @Summary Delete a category
// @Tags admin-categories
// @Security SessionCookie
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse "Category not found"
// @Router /api/admin/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.categories.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, "Failed to delete category", err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Category deleted"})
}

// CategoryForm is the multipart body of a category create or update. Absent fields stay nil.
type CategoryForm struct {
	Name        *string               `form:"name" binding:"omitempty,max=150"`
	Slug        *string               `form:"slug" binding:"omitempty,max=150"`
	Description *string               `form:"description"`
	Image       *multipart.FileHeader `form:"image"`
}

func categoryInput(c *gin.Context) (services.CategoryInput, io.Closer, error) {
	var form CategoryForm
	if err := c.ShouldBind(&form); err != nil {
		return services.CategoryInput{}, nil, fmt.Errorf("%w: %s", services.ErrValidation, validators.DescribeBindingError(err))
	}

	image, closer, err := openImage(form.Image)
	if err != nil {
		return services.CategoryInput{}, nil, err
	}

	return services.CategoryInput{
		Name:        form.Name,
		Slug:        form.Slug,
		Description: form.Description,
		Image:       image,
	}, closer, nil
}
