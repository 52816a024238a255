package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/quillpress/api-backend/internal/middleware"
	"github.com/quillpress/api-backend/internal/models"
	"github.com/quillpress/api-backend/internal/services"
)

// AdminListResponse lists admin accounts
type AdminListResponse struct {
	Success bool                    `json:"success" example:"true"`
	Admins  []services.AdminSummary `json:"admins"`
}

// UpdateAdminStatusRequest sets the approval status of an account
type UpdateAdminStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending approved rejected" example:"approved"`
}

// AdminStatusResponse is returned after a status change
type AdminStatusResponse struct {
	Success bool               `json:"success" example:"true"`
	Admin   AdminStatusSummary `json:"admin"`
}

// AdminStatusSummary is the account after a status change
type AdminStatusSummary struct {
	ID       uint               `json:"id"`
	Username string             `json:"username"`
	Status   models.AdminStatus `json:"status"`
}

// AdminUserHandler handles super-admin account management
type AdminUserHandler struct {
	admins *services.AdminUserService
	log    *zap.Logger
}

// NewAdminUserHandler creates a new admin user handler
func NewAdminUserHandler(admins *services.AdminUserService, log *zap.Logger) *AdminUserHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AdminUserHandler{admins: admins, log: log}
}

// List handles GET /api/admin/admins
// @Summary List admin accounts
// @Tags admin-users
// @Security SessionCookie
// @Produce json
// @Success 200 {object} AdminListResponse
// @Failure 403 {object} ErrorResponse "Super-admin only"
// @Router /api/admin/admins [get]
func (h *AdminUserHandler) List(c *gin.Context) {
	admins, err := h.admins.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, "Failed to list admins", err)
		return
	}
	if admins == nil {
		admins = []services.AdminSummary{}
	}

	c.JSON(http.StatusOK, AdminListResponse{Success: true, Admins: admins})
}

// UpdateStatus handles POST /api/admin/admins/:id/status
// @Summary Approve, reject or reset an admin account
// @Description The account owner is notified by email when the status changes. A super-admin cannot change their own status.
// @Tags admin-users
// @Security SessionCookie
// @Accept json
// @Produce json
// @Param id path int true "Admin ID"
// @Param request body UpdateAdminStatusRequest true "New status"
// @Success 200 {object} AdminStatusResponse
// @Failure 400 {object} ErrorResponse "Invalid status"
// @Failure 403 {object} ErrorResponse "Not allowed"
// @Failure 404 {object} ErrorResponse "Admin not found"
// @Router /api/admin/admins/{id}/status [post]
func (h *AdminUserHandler) UpdateStatus(c *gin.Context) {
	targetID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateAdminStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		respondError(c, h.log, "Unauthorized", services.ErrAuthenticationFailed)
		return
	}
	actorID, err := claims.AccountID()
	if err != nil {
		respondError(c, h.log, "Unauthorized", services.ErrAuthenticationFailed)
		return
	}

	admin, err := h.admins.UpdateStatus(c.Request.Context(), actorID, targetID, req.Status)
	if err != nil {
		respondError(c, h.log, "Failed to update admin status", err)
		return
	}

	c.JSON(http.StatusOK, AdminStatusResponse{
		Success: true,
		Admin:   AdminStatusSummary{ID: admin.ID, Username: admin.Username, Status: admin.Status},
	})
}
