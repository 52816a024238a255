package middleware

import (
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/quillpress/api-backend/internal/crypto"
	"github.com/quillpress/api-backend/internal/models"
)

// Decision is the outcome of authorizing one request
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectLanding
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case RedirectLanding:
		return "redirect-landing"
	default:
		return "unknown"
	}
}

const (
	// LoginPath is where unauthenticated browsers are sent
	LoginPath = "/auth/admin/login"
	// LandingPath is where under-privileged admins are sent
	LandingPath = "/admin"

	// ClaimsKey holds the verified *crypto.SessionClaims in the gin context
	ClaimsKey = "admin_claims"

	DefaultCookieName = "session_token"
)

var (
	protectedPrefixes = []string{"/admin", "/api/admin"}

	superAdminPrefixes = []string{
		"/admin/user-management",
		"/admin/add-admin",
		"/admin/admin-users",
		"/api/admin/admins",
	}
)

// TokenVerifier validates a session token and returns its claims
type TokenVerifier interface {
	ValidateToken(token string) (*crypto.SessionClaims, error)
}

// RouteAuthorizer gates the admin console by path and role claim.
// Nothing is cached between requests.
type RouteAuthorizer struct {
	verifier   TokenVerifier
	cookieName string
	log        *zap.Logger
}

// NewRouteAuthorizer creates a route authorizer reading tokens from cookieName
func NewRouteAuthorizer(verifier TokenVerifier, cookieName string, log *zap.Logger) *RouteAuthorizer {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RouteAuthorizer{verifier: verifier, cookieName: cookieName, log: log}
}

// Decide maps a request path and token to a decision. It has no side effects.
func (a *RouteAuthorizer) Decide(requestPath, token string) Decision {
	decision, _ := a.decide(requestPath, token)
	return decision
}

func (a *RouteAuthorizer) decide(requestPath, token string) (Decision, *crypto.SessionClaims) {
	p := cleanPath(requestPath)

	var claims *crypto.SessionClaims
	if token != "" {
		if c, err := a.verifier.ValidateToken(token); err == nil {
			if _, ok := models.ParseRole(c.Role); ok {
				claims = c
			}
		}
	}

	if !matchesAny(p, protectedPrefixes) {
		return Allow, claims
	}
	if claims == nil {
		return RedirectLogin, nil
	}
	if matchesAny(p, superAdminPrefixes) && claims.Role != string(models.RoleSuperAdmin) {
		return RedirectLanding, claims
	}

	return Allow, claims
}

// Middleware evaluates every request before its handler runs. Browser paths are
// redirected with 303; paths under /api answer 401 or 403 JSON instead.
// Valid claims are stored under ClaimsKey on any path.
func (a *RouteAuthorizer) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, claims := a.decide(c.Request.URL.Path, a.tokenFromRequest(c))
		if claims != nil {
			c.Set(ClaimsKey, claims)
		}

		if decision == Allow {
			c.Next()
			return
		}

		a.log.Info("request denied",
			zap.String("path", c.Request.URL.Path),
			zap.Stringer("decision", decision),
		)

		isAPI := matchesAny(cleanPath(c.Request.URL.Path), []string{"/api"})
		switch {
		case isAPI && decision == RedirectLogin:
			deny(c, http.StatusUnauthorized, "Unauthorized", "Admin authentication required")
		case isAPI:
			deny(c, http.StatusForbidden, "Forbidden", "Super-admin role required")
		case decision == RedirectLogin:
			c.Redirect(http.StatusSeeOther, LoginPath)
			c.Abort()
		default:
			c.Redirect(http.StatusSeeOther, LandingPath)
			c.Abort()
		}
	}
}

// ClaimsFromContext returns the claims stored by Middleware
func ClaimsFromContext(c *gin.Context) (*crypto.SessionClaims, bool) {
	value, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*crypto.SessionClaims)
	return claims, ok && claims != nil
}

// tokenFromRequest reads the session cookie, falling back to a Bearer header
func (a *RouteAuthorizer) tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(a.cookieName); err == nil && cookie != "" {
		return cookie
	}

	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

func deny(c *gin.Context, status int, title, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   title,
		"message": message,
	})
	c.Abort()
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// matchesAny reports whether p equals a prefix or lies below it on a segment boundary
func matchesAny(p string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	return false
}
