package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/inventory-api/internal/database/models"
	"github.com/EgehanKilicarslan/inventory-api/internal/database/service"
	"github.com/EgehanKilicarslan/inventory-api/internal/validation"
)

const (
	msgProductNotFound        = "Product not found."
	msgSoftDeletedProductGone = "Soft-deleted product not found."
)

// ProductResponse is the client-facing shape of a product with its category joined
type ProductResponse struct {
	ProductID          uint       `json:"product_id"`
	ProductName        string     `json:"product_name"`
	ProductSKU         string     `json:"product_sku"`
	ProductCategoryID  uint       `json:"product_category_id"`
	ProductCategory    string     `json:"product_category"`
	ProductDescription *string    `json:"product_description"`
	DeletedAt          *time.Time `json:"deleted_at,omitempty"`
}

func formatProduct(p *models.Product) ProductResponse {
	return ProductResponse{
		ProductID:          p.ID,
		ProductName:        p.ProductName,
		ProductSKU:         p.ProductSKU,
		ProductCategoryID:  p.CategoryID,
		ProductCategory:    p.CategoryName(),
		ProductDescription: p.ProductDescription,
		DeletedAt:          p.DeletedAt,
	}
}

// ProductHandler handles HTTP requests for products
type ProductHandler struct {
	service service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// List handles GET /products
func (h *ProductHandler) List(c *gin.Context) {
	page, err := h.service.List(c.Request.Context(), pageParam(c))
	if err != nil {
		handleServiceError(c, h.logger, err, msgProductNotFound)
		return
	}

	respondPage(c, page, formatProduct)
}

// Create handles POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	var in validation.ProductInput
	if !bindJSON(c, h.logger, &in) {
		return
	}

	product, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		handleServiceError(c, h.logger, err, msgProductNotFound)
		return
	}

	respond(c, http.StatusOK, "Product is added successfully.", formatProduct(product))
}

// Get handles GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := parseID(c, msgProductNotFound)
	if !ok {
		return
	}

	product, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, h.logger, err, msgProductNotFound)
		return
	}

	respond(c, http.StatusOK, MessageOK, formatProduct(product))
}

// Update handles PUT /products/:id/update
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseID(c, msgProductNotFound)
	if !ok {
		return
	}

	var in validation.ProductInput
	if !bindJSON(c, h.logger, &in) {
		return
	}

	product, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil {
		handleServiceError(c, h.logger, err, msgProductNotFound)
		return
	}

	respond(c, http.StatusOK, "Product updated successfully.", formatProduct(product))
}

// SoftDelete handles DELETE /products/:id
func (h *ProductHandler) SoftDelete(c *gin.Context) {
	id, ok := parseID(c, msgProductNotFound)
	if !ok {
		return
	}

	if err := h.service.SoftDelete(c.Request.Context(), id); err != nil {
		handleServiceError(c, h.logger, err, msgProductNotFound)
		return
	}

	respond(c, http.StatusOK, "Product soft deleted successfully.", nil)
}

// ListSoftDeleted handles GET /products/soft-deleted/archived
func (h *ProductHandler) ListSoftDeleted(c *gin.Context) {
	products, err := h.service.ListSoftDeleted(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err, msgProductNotFound)
		return
	}

	items := make([]ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, formatProduct(&products[i]))
	}

	respond(c, http.StatusOK, MessageOK, items)
}

// Restore handles PATCH /products/:id
func (h *ProductHandler) Restore(c *gin.Context) {
	id, ok := parseID(c, msgSoftDeletedProductGone)
	if !ok {
		return
	}

	if err := h.service.Restore(c.Request.Context(), id); err != nil {
		handleServiceError(c, h.logger, err, msgSoftDeletedProductGone)
		return
	}

	respond(c, http.StatusOK, "Product restored successfully.", nil)
}
