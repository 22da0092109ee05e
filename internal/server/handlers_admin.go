// ABOUTME: Admin session handlers: signin, signout, and session status
// ABOUTME: Sessions ride an HTTP-only cookie carrying a signed token
package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tessellate-systems/lattice/internal/auth"
)

// AdminHandler serves the admin session lifecycle
type AdminHandler struct {
	log  *Logger
	auth *auth.Service
}

// NewAdminHandler creates an AdminHandler
func NewAdminHandler(log *Logger, svc *auth.Service) *AdminHandler {
	return &AdminHandler{log: log.With("handler", "admin"), auth: svc}
}

type signinRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignIn handles POST /api/admin/signin
func (h *AdminHandler) SignIn(c *gin.Context) {
	var req signinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	token, err := h.auth.SignIn(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			RespondError(c, http.StatusUnauthorized, "invalid_credentials", nil)
			return
		}
		h.log.Error("signin failed", "error", err)
		RespondTaxonomy(c, err)
		return
	}

	maxAge := int(h.auth.SessionTTL().Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, token, maxAge, "/", "", false, true)
	RespondOK(c, gin.H{"signedIn": true})
}

// SignOut handles POST /api/admin/signout
func (h *AdminHandler) SignOut(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, "", -1, "/", "", false, true)
	RespondOK(c, gin.H{"signedIn": false})
}

// Status handles GET /api/admin/status without requiring a valid session
func (h *AdminHandler) Status(c *gin.Context) {
	token, err := c.Cookie(sessionCookieName)
	signedIn := err == nil && h.auth.ValidateSession(token)
	RespondOK(c, gin.H{"signedIn": signedIn})
}
