package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quillpress/api-backend/internal/services"
)

// CleanupHandler handles HTTP requests for OTP challenge cleanup
type CleanupHandler struct {
	cleanupService *services.CleanupService
}

// NewCleanupHandler creates a new cleanup handler
func NewCleanupHandler(cleanupService *services.CleanupService) *CleanupHandler {
	return &CleanupHandler{
		cleanupService: cleanupService,
	}
}

// CleanupResponse represents the response from cleanup operation
type CleanupResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"OTP cleanup completed successfully"`
	Removed int64  `json:"removed" example:"3"`
}

// CleanupExpiredChallenges handles POST /api/admin/maintenance/otp-cleanup
// @Summary Cleanup expired OTP challenges
// @Description Manually trigger the hourly cleanup of expired login codes
// @Tags admin-maintenance
// @Security SessionCookie
// @Produce json
// @Success 200 {object} CleanupResponse "Cleanup completed successfully"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /api/admin/maintenance/otp-cleanup [post]
func (h *CleanupHandler) CleanupExpiredChallenges(c *gin.Context) {
	removed := h.cleanupService.RunCleanupNow()

	c.JSON(http.StatusOK, CleanupResponse{
		Success: true,
		Message: "OTP cleanup completed successfully",
		Removed: removed,
	})
}
