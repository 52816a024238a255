package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/quillpress/api-backend/internal/models"
	"github.com/quillpress/api-backend/internal/services"
)

// InformationRequest carries the new body of an information page
type InformationRequest struct {
	Title   string `json:"title" binding:"required,max=255"`
	Content string `json:"content" binding:"required"`
}

// InformationResponse wraps an information page
type InformationResponse struct {
	Success bool                    `json:"success" example:"true"`
	Page    *models.InformationPage `json:"page"`
}

// InformationHandler serves the about, terms and privacy pages
type InformationHandler struct {
	pages *services.InformationService
	log   *zap.Logger
}

// NewInformationHandler creates a new information page handler
func NewInformationHandler(pages *services.InformationService, log *zap.Logger) *InformationHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &InformationHandler{pages: pages, log: log}
}

// Get handles GET /api/information/:page
// @Summary Get an information page
// @Tags information
// @Produce json
// @Param page path string true "about, terms or privacy_policies"
// @Success 200 {object} InformationResponse
// @Failure 404 {object} ErrorResponse "Unknown page"
// @Router /api/information/{page} [get]
func (h *InformationHandler) Get(c *gin.Context) {
	page, err := h.pages.Get(c.Request.Context(), c.Param("page"))
	if err != nil {
		respondError(c, h.log, "Page not found", err)
		return
	}

	c.JSON(http.StatusOK, InformationResponse{Success: true, Page: page})
}

// Update handles PUT /api/admin/information/:page
// @Summary Update an information page
// @Tags information
// @Security SessionCookie
// @Accept json
// @Produce json
// @Param page path string true "about, terms or privacy_policies"
// @Param request body InformationRequest true "Title and HTML content"
// @Success 200 {object} InformationResponse
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 404 {object} ErrorResponse "Unknown page"
// @Router /api/admin/information/{page} [put]
func (h *InformationHandler) Update(c *gin.Context) {
	var req InformationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	page, err := h.pages.Update(c.Request.Context(), c.Param("page"), req.Title, req.Content)
	if err != nil {
		respondError(c, h.log, "Failed to update page", err)
		return
	}

	c.JSON(http.StatusOK, InformationResponse{Success: true, Page: page})
}
