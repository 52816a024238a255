package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/quillpress/api-backend/internal/models"
	"github.com/quillpress/api-backend/internal/services"
)

// FAQRequest carries a question and its answer
type FAQRequest struct {
	Question string `json:"question" binding:"required,max=2000"`
	Answer   string `json:"answer" binding:"required,max=10000"`
}

// FAQListResponse lists the FAQs of a blog
type FAQListResponse struct {
	Success bool          `json:"success" example:"true"`
	FAQs    []*models.FAQ `json:"faqs"`
}

// FAQResponse wraps a single FAQ
type FAQResponse struct {
	Success bool        `json:"success" example:"true"`
	FAQ     *models.FAQ `json:"faq"`
}

// ModerationHandler handles FAQs and comments
type ModerationHandler struct {
	faqs     *services.FAQService
	comments *services.CommentService
	log      *zap.Logger
}

// NewModerationHandler creates a new moderation handler
func NewModerationHandler(faqs *services.FAQService, comments *services.CommentService, log *zap.Logger) *ModerationHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ModerationHandler{faqs: faqs, comments: comments, log: log}
}

// ListFAQs handles GET /api/admin/blogs/:id/faqs
// @Summary List the FAQs of a blog
// @Tags admin-faqs
// @Security SessionCookie
// @Produce json
// @Param id path int true "Blog ID"
// @Success 200 {object} FAQListResponse
// @Router /api/admin/blogs/{id}/faqs [get]
func (h *ModerationHandler) ListFAQs(c *gin.Context) {
	blogID, ok := idParam(c, "id")
	if !ok {
		return
	}

	faqs, err := h.faqs.List(c.Request.Context(), blogID)
	if err != nil {
		respondError(c, h.log, "Failed to list FAQs", err)
		return
	}
	if faqs == nil {
		faqs = []*models.FAQ{}
	}

	c.JSON(http.StatusOK, FAQListResponse{Success: true, FAQs: faqs})
}

// CreateFAQ handles POST /api/admin/blogs/:id/faqs
// @Summary Add an FAQ to a blog
// @Tags admin-faqs
// @Security SessionCookie
// @Accept json
// @Produce json
// @Param id path int true "Blog ID"
// @Param request body FAQRequest true "FAQ"
// @Success 201 {object} FAQResponse
// @Failure 404 {object} ErrorResponse "Blog not found"
// @Router /api/admin/blogs/{id}/faqs [post]
func (h *ModerationHandler) CreateFAQ(c *gin.Context) {
	blogID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req FAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	faq, err := h.faqs.Create(c.Request.Context(), blogID, req.Question, req.Answer)
	if err != nil {
		respondError(c, h.log, "Failed to create FAQ", err)
		return
	}

	c.JSON(http.StatusCreated, FAQResponse{Success: true, FAQ: faq})
}

// UpdateFAQ handles PUT /api/admin/faqs/:id
// @Summary Update an FAQ
// @Tags admin-faqs
// @Security SessionCookie
// @Accept json
// @Produce json
// @Param id path int true "FAQ ID"
// @Param request body FAQRequest true "FAQ"
// @Success 200 {object} FAQResponse
// @Failure 404 {object} ErrorResponse "FAQ not found"
// @Router /api/admin/faqs/{id} [put]
func (h *ModerationHandler) UpdateFAQ(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req FAQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	faq, err := h.faqs.Update(c.Request.Context(), id, req.Question, req.Answer)
	if err != nil {
		respondError(c, h.log, "Failed to update FAQ", err)
		return
	}

	c.JSON(http.StatusOK, FAQResponse{Success: true, FAQ: faq})
}

// DeleteFAQ handles DELETE /api/admin/faqs/:id
// @Summary Delete an FAQ
// @Tags admin-faqs
// @Security SessionCookie
// @Produce json
// @Param id path int true "FAQ ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse "FAQ not found"
// @Router /api/admin/faqs/{id} [delete]
func (h *ModerationHandler) DeleteFAQ(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.faqs.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, "Failed to delete FAQ", err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "FAQ deleted"})
}

// ListComments handles GET /api/admin/comments
// @Summary List comments, newest first
// @Tags admin-comments
// @Security SessionCookie
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} services.CommentPage
// @Router /api/admin/comments [get]
func (h *ModerationHandler) ListComments(c *gin.Context) {
	page, err := h.comments.List(c.Request.Context(), pageQuery(c))
	if err != nil {
		respondError(c, h.log, "Failed to list comments", err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// DeleteComment handles DELETE /api/admin/comments/:id
// @Summary Delete a comment
// @Tags admin-comments
// @Security SessionCookie
// @Produce json
// @Param id path int true "Comment ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse "Comment not found"
// @Router /api/admin/comments/{id} [delete]
func (h *ModerationHandler) DeleteComment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.comments.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, "Failed to delete comment", err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Comment deleted"})
}
