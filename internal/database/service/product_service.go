package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/EgehanKilicarslan/inventory-api/internal/database/models"
	"github.com/EgehanKilicarslan/inventory-api/internal/database/repository"
	"github.com/EgehanKilicarslan/inventory-api/internal/validation"
)

// ProductService defines the interface for product business logic.
// Returned products carry their category preloaded.
type ProductService interface {
	List(ctx context.Context, page int) (*Page[models.Product], error)
	Create(ctx context.Context, in validation.ProductInput) (*models.Product, error)
	Get(ctx context.Context, id uint) (*models.Product, error)
	Update(ctx context.Context, id uint, in validation.ProductInput) (*models.Product, error)
	SoftDelete(ctx context.Context, id uint) error
	ListSoftDeleted(ctx context.Context) ([]models.Product, error)
	Restore(ctx context.Context, id uint) error
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	validator    *validation.Validator
	logger       *slog.Logger
}

// NewProductService creates a new product service instance
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	validator *validation.Validator,
	logger *slog.Logger,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		validator:    validator,
		logger:       logger,
	}
}

func (s *productService) List(ctx context.Context, page int) (*Page[models.Product], error) {
	page, offset, limit := window(page, ProductsPerPage)

	products, total, err := s.productRepo.List(ctx, models.StateActive, offset, limit)
	if err != nil {
		s.logger.Error("❌ [ProductService] Failed to list products", "error", err)
		return nil, err
	}

	return newPage(products, total, page, ProductsPerPage), nil
}

func (s *productService) Create(ctx context.Context, in validation.ProductInput) (*models.Product, error) {
	if err := s.validator.Product(ctx, &in, s.productRepo, s.categoryRepo, 0); err != nil {
		return nil, err
	}

	product := &models.Product{
		ProductName:        in.ProductName,
		ProductSKU:         in.ProductSKU,
		CategoryID:         in.CategoryID,
		ProductDescription: in.ProductDescription,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, s.writeError(err)
	}

	s.logger.Info("✅ [ProductService] Product created", "product_id", product.ID, "category_id", product.CategoryID)
	return s.productRepo.FindByID(ctx, product.ID, models.StateActive)
}

func (s *productService) Get(ctx context.Context, id uint) (*models.Product, error) {
	return s.productRepo.FindByID(ctx, id, models.StateActive)
}

func (s *productService) Update(ctx context.Context, id uint, in validation.ProductInput) (*models.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id, models.StateActive)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Product(ctx, &in, s.productRepo, s.categoryRepo, id); err != nil {
		return nil, err
	}

	product.ProductName = in.ProductName
	product.ProductSKU = in.ProductSKU
	product.CategoryID = in.CategoryID
	product.ProductDescription = in.ProductDescription

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, s.writeError(err)
	}

	s.logger.Info("✅ [ProductService] Product updated", "product_id", id)

	// Re-read so the joined category follows a changed category_id
	return s.productRepo.FindByID(ctx, id, models.StateActive)
}

func (s *productService) SoftDelete(ctx context.Context, id uint) error {
	if err := s.productRepo.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("🗑️ [ProductService] Product soft deleted", "product_id", id)
	return nil
}

func (s *productService) ListSoftDeleted(ctx context.Context) ([]models.Product, error) {
	products, err := s.productRepo.ListAll(ctx, models.StateSoftDeleted)
	if err != nil {
		s.logger.Error("❌ [ProductService] Failed to list soft deleted products", "error", err)
		return nil, err
	}
	return nonNil(products), nil
}

func (s *productService) Restore(ctx context.Context, id uint) error {
	product, err := s.productRepo.FindByID(ctx, id, models.StateSoftDeleted)
	if err != nil {
		return err
	}

	taken, err := s.productRepo.SKUTaken(ctx, product.ProductSKU, id)
	if err != nil {
		return err
	}
	if taken {
		return validation.Single("product_sku", validation.Taken("product_sku"))
	}

	if err := s.productRepo.Restore(ctx, id); err != nil {
		return s.writeError(err)
	}

	s.logger.Info("♻️ [ProductService] Product restored", "product_id", id)
	return nil
}

func (s *productService) writeError(err error) error {
	if errors.Is(err, repository.ErrDuplicateKey) {
		s.logger.Warn("⚠️ [ProductService] Duplicate product SKU at write time")
		return validation.Single("product_sku", validation.Taken("product_sku"))
	}
	if !IsNotFound(err) {
		s.logger.Error("❌ [ProductService] Failed to persist product", "error", err)
	}
	return err
}
