package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/EgehanKilicarslan/inventory-api/internal/database/models"
)

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id uint, state models.RecordState) (*models.Product, error)
	List(ctx context.Context, state models.RecordState, offset, limit int) ([]models.Product, int64, error)
	ListAll(ctx context.Context, state models.RecordState) ([]models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	SoftDelete(ctx context.Context, id uint) error
	Restore(ctx context.Context, id uint) error

	// Lookups backing validation rules
	SKUTaken(ctx context.Context, sku string, excludeID uint) (bool, error)
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository instance
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// withCategory joins the referenced category whatever its own state is.
func withCategory(db *gorm.DB) *gorm.DB {
	return db.Preload("Category")
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error)
}

func (r *productRepository) FindByID(ctx context.Context, id uint, state models.RecordState) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Scopes(inState(state), withCategory).
		First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, state models.RecordState, offset, limit int) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Product{}).
		Scopes(inState(state)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Scopes(inState(state), withCategory).
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&products).Error
	return products, total, err
}

func (r *productRepository) ListAll(ctx context.Context, state models.RecordState) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Scopes(inState(state), withCategory).
		Order("id").
		Find(&products).Error
	return products, err
}

// Update overwrites the fillable fields of an active product.
func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	result := r.db.WithContext(ctx).
		Model(product).
		Omit(clause.Associations).
		Scopes(inState(models.StateActive)).
		Select("product_name", "product_sku", "category_id", "product_description").
		Updates(product)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *productRepository) SoftDelete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Scopes(inState(models.StateActive)).
		UpdateColumn("deleted_at", time.Now())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *productRepository) Restore(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Scopes(inState(models.StateSoftDeleted)).
		UpdateColumn("deleted_at", nil)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// SKUTaken reports whether an active product other than excludeID uses the SKU.
func (r *productRepository) SKUTaken(ctx context.Context, sku string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Scopes(inState(models.StateActive), excluding(excludeID)).
		Where("product_sku = ?", sku).
		Count(&count).Error
	return count > 0, err
}
