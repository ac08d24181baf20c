package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/inventory-api/internal/database/models"
	"github.com/EgehanKilicarslan/inventory-api/internal/database/service"
	"github.com/EgehanKilicarslan/inventory-api/internal/validation"
)

// AuthHandler handles HTTP requests for authentication
type AuthHandler struct {
	service   service.AuthService
	validator *validation.Validator
	logger    *slog.Logger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(service service.AuthService, validator *validation.Validator, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service:   service,
		validator: validator,
		logger:    logger,
	}
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"`
	User         *models.User `json:"user,omitempty"`
}

func newAuthResponse(tokens *service.TokenPair, user *models.User) AuthResponse {
	return AuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    tokens.ExpiresIn,
		User:         user,
	}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req validation.LoginInput
	if !bindJSON(c, h.logger, &req) {
		return
	}
	if err := h.validator.Login(&req); err != nil {
		handleServiceError(c, h.logger, err, msgUserNotFound)
		return
	}

	user, tokens, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(c, h.logger, err, msgUserNotFound)
		return
	}

	respond(c, http.StatusOK, "Logged in successfully.", newAuthResponse(tokens, user))
}

// RefreshToken handles POST /auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req validation.TokenInput
	if !bindJSON(c, h.logger, &req) {
		return
	}
	if err := h.validator.Token(&req); err != nil {
		handleServiceError(c, h.logger, err, msgUserNotFound)
		return
	}

	tokens, err := h.service.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		handleServiceError(c, h.logger, err, msgUserNotFound)
		return
	}

	respond(c, http.StatusOK, "Token refreshed successfully.", newAuthResponse(tokens, nil))
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req validation.TokenInput
	if !bindJSON(c, h.logger, &req) {
		return
	}
	if err := h.validator.Token(&req); err != nil {
		handleServiceError(c, h.logger, err, msgUserNotFound)
		return
	}

	if err := h.service.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		handleServiceError(c, h.logger, err, msgUserNotFound)
		return
	}

	respond(c, http.StatusOK, "Logged out successfully.", nil)
}
