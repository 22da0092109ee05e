// ABOUTME: Gin middleware: CORS, request logging, and the authorization gate
// ABOUTME: Mutations accept either the static API key header or an admin session cookie
package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/tessellate-systems/lattice/internal/auth"
)

const (
	apiKeyHeader      = "X-API-Key"
	sessionCookieName = "admin_session"
)

// CORS allows the local rendering frontend origins
func CORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://127.0.0.1:3000",
			"http://127.0.0.1:5173",
		},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Requested-With", apiKeyHeader},
		AllowCredentials: true,
	})
}

// RequestLog logs each request with method, path, status, and latency
func RequestLog(log *Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
		)
	}
}

// RequireIngestAuth gates mutating operations. A valid API key header or a
// valid admin session both authorize; the downstream handlers only ever
// see the boolean outcome.
func RequireIngestAuth(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authService.CheckAPIKey(c.GetHeader(apiKeyHeader)) {
			c.Next()
			return
		}
		if token, err := c.Cookie(sessionCookieName); err == nil && authService.ValidateSession(token) {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorEnvelope{
			Error: APIError{Message: "invalid API key or session", Code: "unauthorized"},
		})
	}
}

// RequireAdmin gates destructive operations behind the session cookie only
func RequireAdmin(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookieName)
		if err != nil || !authService.ValidateSession(token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorEnvelope{
				Error: APIError{Message: "admin session required", Code: "unauthorized"},
			})
			return
		}
		c.Next()
	}
}
