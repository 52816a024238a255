package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/quillpress/api-backend/internal/services"
)

// UploadResponse carries the public URL of a stored image
type UploadResponse struct {
	Success bool   `json:"success" example:"true"`
	URL     string `json:"url" example:"http://localhost:9000/blog-media/blog-images/5f0c.png"`
}

// MediaHandler handles the admin media library
type MediaHandler struct {
	media *services.MediaService
	log   *zap.Logger
}

// NewMediaHandler creates a new media handler
func NewMediaHandler(media *services.MediaService, log *zap.Logger) *MediaHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &MediaHandler{media: media, log: log}
}

// Library handles GET /api/admin/media
// @Summary List blog images
// @Tags admin-media
// @Security SessionCookie
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} services.MediaLibraryPage
// @Router /api/admin/media [get]
func (h *MediaHandler) Library(c *gin.Context) {
	page, err := h.media.Library(c.Request.Context(), pageQuery(c))
	if err != nil {
		respondError(c, h.log, "Failed to load media library", err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// Upload handles POST /api/admin/media
// @Summary Upload an editor image
// @Tags admin-media
// @Security SessionCookie
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image"
// @Success 201 {object} UploadResponse
// @Failure 400 {object} ErrorResponse "Not an image or too large"
// @Router /api/admin/media [post]
func (h *MediaHandler) Upload(c *gin.Context) {
	image, closer, err := formUpload(c, imageField)
	if err != nil {
		respondError(c, h.log, "Invalid image", err)
		return
	}
	defer closeQuietly(closer)
	if image == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid image",
			Message: "image file is required",
		})
		return
	}

	url, err := h.media.UploadImage(c.Request.Context(), *image)
	if err != nil {
		respondError(c, h.log, "Failed to upload image", err)
		return
	}

	c.JSON(http.StatusCreated, UploadResponse{Success: true, URL: url})
}
