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
	msgCategoryNotFound        = "Category not found."
	msgSoftDeletedCategoryGone = "Soft-deleted category not found."
)

// CategoryHandler handles HTTP requests for categories
type CategoryHandler struct {
	service service.CategoryService
	logger  *slog.Logger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(service service.CategoryService, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{
		service: service,
		logger:  logger,
	}
}

// List handles GET /categories
func (h *CategoryHandler) List(c *gin.Context) {
	page, err := h.service.List(c.Request.Context(), pageParam(c))
	if err != nil {
		handleServiceError(c, h.logger, err, msgCategoryNotFound)
		return
	}

	respondPage(c, page, identity[models.Category])
}

// Create handles POST /categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var in validation.CategoryInput
	if !bindJSON(c, h.logger, &in) {
		return
	}

	category, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		handleServiceError(c, h.logger, err, msgCategoryNotFound)
		return
	}

	respond(c, http.StatusOK, "Category is created successfully.", category)
}

// Get handles GET /categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := parseID(c, msgCategoryNotFound)
	if !ok {
		return
	}

	category, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, h.logger, err, msgCategoryNotFound)
		return
	}

	respond(c, http.StatusOK, MessageOK, category)
}

// Update handles PUT /categories/:id/update
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := parseID(c, msgCategoryNotFound)
	if !ok {
		return
	}

	var in validation.CategoryInput
	if !bindJSON(c, h.logger, &in) {
		return
	}

	category, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil {
		handleServiceError(c, h.logger, err, msgCategoryNotFound)
		return
	}

	respond(c, http.StatusOK, "Category is updated successfully.", category)
}

// SoftDelete handles DELETE /categories/:id
func (h *CategoryHandler) SoftDelete(c *gin.Context) {
	id, ok := parseID(c, msgCategoryNotFound)
	if !ok {
		return
	}

	if err := h.service.SoftDelete(c.Request.Context(), id); err != nil {
		handleServiceError(c, h.logger, err, msgCategoryNotFound)
		return
	}

	respond(c, http.StatusOK, "Category soft deleted successfully.", nil)
}

// ListSoftDeleted handles GET /categories/soft-deleted/archived
func (h *CategoryHandler) ListSoftDeleted(c *gin.Context) {
	categories, err := h.service.ListSoftDeleted(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err, msgCategoryNotFound)
		return
	}

	respond(c, http.StatusOK, MessageOK, categories)
}

// Restore handles PATCH /categories/:id
func (h *CategoryHandler) Restore(c *gin.Context) {
	id, ok := parseID(c, msgSoftDeletedCategoryGone)
	if !ok {
		return
	}

	if err := h.service.Restore(c.Request.Context(), id); err != nil {
		handleServiceError(c, h.logger, err, msgSoftDeletedCategoryGone)
		return
	}

	respond(c, http.StatusOK, "Category restored successfully.", nil)
}
