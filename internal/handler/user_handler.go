package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/inventory-api/internal/database/models"
	"github.com/EgehanKilicarslan/inventory-api/internal/database/service"
	"github.com/EgehanKilicarslan/inventory-api/internal/validation"
)

const (
	msgUserNotFound        = "User not found."
	msgSoftDeletedUserGone = "Soft-deleted user not found."
)

// UserHandler handles HTTP requests for users
type UserHandler struct {
	service service.UserService
	logger  *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(service service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger,
	}
}

// List handles GET /users
func (h *UserHandler) List(c *gin.Context) {
	page, err := h.service.List(c.Request.Context(), pageParam(c))
	if err != nil {
		handleServiceError(c, h.logger, err, msgUserNotFound)
		return
	}

	respondPage(c, page, identity[models.User])
}

// Create handles POST /users
func (h *UserHandler) Create(c *gin.Context) {
	var in validation.UserInput
	if !bindJSON(c, h.logger, &in) {
		return
	}

	user, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		handleServiceError(c, h.logger, err, msgUserNotFound)
		return
	}

	respond(c, http.StatusOK, "User is created successfully.", user)
}

// Get handles GET /users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c, msgUserNotFound)
	if !ok {
		return
	}

	user, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, h.logger, err, msgUserNotFound)
		return
	}

	respond(c, http.StatusOK, MessageOK, user)
}

// Update handles PATCH /users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c, msgUserNotFound)
	if !ok {
		return
	}

	var in validation.UserPatch
	if !bindJSON(c, h.logger, &in) {
		return
	}

	user, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil {
		handleServiceError(c, h.logger, err, msgUserNotFound)
		return
	}

	respond(c, http.StatusOK, "User updated successfully.", user)
}

// SoftDelete handles DELETE /users/:id
func (h *UserHandler) SoftDelete(c *gin.Context) {
	id, ok := parseID(c, msgUserNotFound)
	if !ok {
		return
	}

	if err := h.service.SoftDelete(c.Request.Context(), id); err != nil {
		handleServiceError(c, h.logger, err, msgUserNotFound)
		return
	}

	respond(c, http.StatusOK, "User soft deleted successfully.", nil)
}

// ListSoftDeleted handles GET /users/soft-deleted/archived
func (h *UserHandler) ListSoftDeleted(c *gin.Context) {
	users, err := h.service.ListSoftDeleted(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err, msgUserNotFound)
		return
	}

	respond(c, http.StatusOK, MessageOK, users)
}

// Restore handles PATCH /users/:id/restore
func (h *UserHandler) Restore(c *gin.Context) {
	id, ok := parseID(c, msgSoftDeletedUserGone)
	if !ok {
		return
	}

	if err := h.service.Restore(c.Request.Context(), id); err != nil {
		handleServiceError(c, h.logger, err, msgSoftDeletedUserGone)
		return
	}

	respond(c, http.StatusOK, "User restored successfully.", nil)
}

// Me handles GET /user - returns the authenticated user
func (h *UserHandler) Me(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		h.logger.Warn("⚠️ [UserHandler] User ID not found in context")
		respond(c, http.StatusUnauthorized, "Unauthenticated.", nil)
		return
	}

	userIDUint, ok := userID.(uint)
	if !ok {
		h.logger.Error("❌ [UserHandler] Invalid user ID type")
		respond(c, http.StatusInternalServerError, MessageInternalError, nil)
		return
	}

	user, err := h.service.Get(c.Request.Context(), userIDUint)
	if err != nil {
		handleServiceError(c, h.logger, err, msgUserNotFound)
		return
	}

	respond(c, http.StatusOK, MessageOK, user)
}
