package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"github.com/quillpress/api-backend/internal/middleware"
	"github.com/quillpress/api-backend/internal/services"
)

// CookieConfig controls the session cookie
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthHandler handles admin sign-in and sign-out
type AuthHandler struct {
	sessions *services.SessionService
	otp      *services.OTPService
	cookie   CookieConfig
	log      *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(sessions *services.SessionService, otp *services.OTPService, cookie CookieConfig, log *zap.Logger) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = middleware.DefaultCookieName
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{sessions: sessions, otp: otp, cookie: cookie, log: log}
}

// LoginRequest represents a password sign-in. Either username or email identifies the account.
type LoginRequest struct {
	Username string `json:"username" form:"username" example:"jane"`
	Email    string `json:"email" form:"email" example:"jane@example.com"`
	Password string `json:"password" form:"password" binding:"required"`
}

// SendOTPRequest asks for a login code
type SendOTPRequest struct {
	Mobile string `json:"mobile" binding:"required" example:"9999999999"`
}

// OTPLoginRequest exchanges a login code for a session
type OTPLoginRequest struct {
	Mobile string `json:"mobile" binding:"required" example:"9999999999"`
	OTP    string `json:"otp" binding:"required" example:"123456"`
}

// AdminRef identifies the signed-in admin
type AdminRef struct {
	ID       uint   `json:"id" example:"1"`
	Username string `json:"username" example:"jane"`
	Role     string `json:"role,omitempty" example:"admin"`
}

// LoginResponse is returned after a successful sign-in
type LoginResponse struct {
	Success bool     `json:"success" example:"true"`
	Admin   AdminRef `json:"admin"`
}

// Login handles POST /api/auth/admin/login
// @Summary Sign in with a password
// @Description Accepts JSON or a form post. Form posts are redirected to the admin landing page or back to the login page.
// @Tags auth
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Success 303 "Form post redirect"
// @Failure 400 {object} ErrorResponse "Invalid request format"
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Router /api/auth/admin/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	isForm := c.ContentType() != binding.MIMEJSON

	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		if isForm {
			c.Redirect(http.StatusSeeOther, middleware.LoginPath+"?error=1")
			return
		}
		respondBindingError(c, err)
		return
	}

	identifier := strings.TrimSpace(req.Username)
	if identifier == "" {
		identifier = strings.TrimSpace(req.Email)
	}

	session, err := h.sessions.LoginWithPassword(c.Request.Context(), identifier, req.Password)
	if err != nil {
		if isForm {
			c.Redirect(http.StatusSeeOther, middleware.LoginPath+"?error=1")
			return
		}
		respondError(c, h.log, "Authentication failed", err)
		return
	}

	h.setSessionCookie(c, session.Token)
	if isForm {
		c.Redirect(http.StatusSeeOther, middleware.LandingPath)
		return
	}
	c.JSON(http.StatusOK, newLoginResponse(session))
}

// SendOTP handles POST /api/auth/admin/send-otp
// @Summary Send a login code by SMS
// @Description Always answers the same way for unknown mobiles
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SendOTPRequest true "Mobile number"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse "Invalid mobile number"
// @Failure 429 {object} ErrorResponse "Requested too soon"
// @Failure 502 {object} ErrorResponse "SMS delivery failed"
// @Router /api/auth/admin/send-otp [post]
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	if _, err := h.otp.Issue(c.Request.Context(), req.Mobile); err != nil {
		respondError(c, h.log, "Failed to send OTP", err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Success: true,
		Message: "If the number belongs to an approved admin, a code has been sent",
	})
}

// OTPLogin handles POST /api/auth/admin/otp-login
// @Summary Sign in with an SMS code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body OTPLoginRequest true "Mobile number and code"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} ErrorResponse "Invalid request format"
// @Failure 401 {object} ErrorResponse "Invalid credentials"
// @Router /api/auth/admin/otp-login [post]
func (h *AuthHandler) OTPLogin(c *gin.Context) {
	var req OTPLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	session, err := h.sessions.LoginWithOTP(c.Request.Context(), req.Mobile, req.OTP)
	if err != nil {
		respondError(c, h.log, "Authentication failed", err)
		return
	}

	h.setSessionCookie(c, session.Token)
	c.JSON(http.StatusOK, newLoginResponse(session))
}

// Logout handles POST /api/auth/admin/logout
// @Summary Sign out
// @Description Clears the session cookie. The token itself stays valid until it expires.
// @Tags auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /api/auth/admin/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Signed out"})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, token, int(h.sessions.TTL().Seconds()), "/", "", h.cookie.Secure, true)
}

func newLoginResponse(session *services.Session) LoginResponse {
	return LoginResponse{
		Success: true,
		Admin: AdminRef{
			ID:       session.Admin.ID,
			Username: session.Admin.Username,
			Role:     string(session.Role),
		},
	}
}
