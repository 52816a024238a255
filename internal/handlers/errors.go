package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/quillpress/api-backend/internal/services"
	"github.com/quillpress/api-backend/internal/validators"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// MessageResponse is a success response carrying only a message
type MessageResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message"`
}

// genericAuthMessage is the only detail ever returned for a failed sign-in
const genericAuthMessage = "Invalid credentials"

// respondError maps a service error onto a status code and error body.
// Unexpected errors are logged and hidden behind a generic message.
func respondError(c *gin.Context, log *zap.Logger, title string, err error) {
	status, message := http.StatusInternalServerError, "Internal server error"

	switch {
	case errors.Is(err, services.ErrAuthenticationFailed):
		status, message = http.StatusUnauthorized, genericAuthMessage
	case errors.Is(err, services.ErrAuthorizationFailed):
		status, message = http.StatusForbidden, detail(err, services.ErrAuthorizationFailed)
	case errors.Is(err, services.ErrValidation):
		status, message = http.StatusBadRequest, detail(err, services.ErrValidation)
	case errors.Is(err, services.ErrConflict):
		// Duplicate names and slugs are client errors on this API
		status, message = http.StatusBadRequest, detail(err, services.ErrConflict)
	case errors.Is(err, services.ErrNotFound):
		status, message = http.StatusNotFound, "Not found"
	case errors.Is(err, services.ErrRateLimited):
		status, message = http.StatusTooManyRequests, detail(err, services.ErrRateLimited)
	case errors.Is(err, services.ErrDeliveryFailed):
		status, message = http.StatusBadGateway, err.Error()
	default:
		log.Error(title, zap.String("path", c.Request.URL.Path), zap.Error(err))
	}

	c.AbortWithStatusJSON(status, ErrorResponse{Error: title, Message: message})
}

// respondBindingError answers 400 for a payload that failed to bind
func respondBindingError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Error:   "Invalid request format",
		Message: validators.DescribeBindingError(err),
	})
}

// detail strips the sentinel prefix from a wrapped error message
func detail(err, sentinel error) string {
	msg := err.Error()
	if trimmed := strings.TrimPrefix(msg, sentinel.Error()+": "); trimmed != msg && trimmed != "" {
		return trimmed
	}
	return msg
}

// idParam parses a positive numeric path parameter
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request format",
			Message: name + " must be a positive integer",
		})
		return 0, false
	}
	return uint(id), true
}
