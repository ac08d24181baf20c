package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/inventory-api/internal/database/service"
	"github.com/EgehanKilicarslan/inventory-api/internal/handler"
)

// AuthMiddleware handles JWT validation
type AuthMiddleware struct {
	service service.AuthService
	logger  *slog.Logger
}

// NewAuthMiddleware creates a new auth middleware instance
func NewAuthMiddleware(service service.AuthService, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		service: service,
		logger:  logger,
	}
}

// RequireAuth validates JWT token and sets userID in context
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			m.logger.Warn("⚠️ [Middleware] Missing Authorization header")
			abort(c, http.StatusUnauthorized, "Authorization header required.")
			return
		}

		scheme, tokenString, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
			m.logger.Warn("⚠️ [Middleware] Invalid Authorization header format")
			abort(c, http.StatusUnauthorized, "Invalid authorization header format.")
			return
		}

		userID, err := m.service.ValidateAccessToken(tokenString)
		if err != nil {
			m.logger.Warn("⚠️ [Middleware] Invalid token", "error", err)
			abort(c, http.StatusUnauthorized, "Invalid or expired token.")
			return
		}

		c.Set("userID", userID)
		m.logger.Debug("✅ [Middleware] Token validated", "user_id", userID)

		c.Next()
	}
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, handler.Envelope{StatusCode: status, Message: message})
}
