package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/inventory-api/internal/database/models"
)

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	FindByID(ctx context.Context, id uint, state models.RecordState) (*models.Category, error)
	List(ctx context.Context, state models.RecordState, offset, limit int) ([]models.Category, int64, error)
	ListAll(ctx context.Context, state models.RecordState) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	SoftDelete(ctx context.Context, id uint) error
	Restore(ctx context.Context, id uint) error

	// Lookups backing validation rules
	NameTaken(ctx context.Context, name string, excludeID uint) (bool, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository instance
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	return translate(r.db.WithContext(ctx).Create(category).Error)
}

func (r *categoryRepository) FindByID(ctx context.Context, id uint, state models.RecordState) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Scopes(inState(state)).First(&category, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context, state models.RecordState, offset, limit int) ([]models.Category, int64, error) {
	var categories []models.Category
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Category{}).
		Scopes(inState(state)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Scopes(inState(state)).
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&categories).Error
	return categories, total, err
}

func (r *categoryRepository) ListAll(ctx context.Context, state models.RecordState) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Scopes(inState(state)).Order("id").Find(&categories).Error
	return categories, err
}

// Update overwrites the fillable fields of an active category.
func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	result := r.db.WithContext(ctx).
		Model(category).
		Scopes(inState(models.StateActive)).
		Select("category_name", "category_description").
		Updates(category)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *categoryRepository) SoftDelete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", id).
		Scopes(inState(models.StateActive)).
		UpdateColumn("deleted_at", time.Now())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *categoryRepository) Restore(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", id).
		Scopes(inState(models.StateSoftDeleted)).
		UpdateColumn("deleted_at", nil)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// NameTaken reports whether an active category other than excludeID uses the name.
func (r *categoryRepository) NameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Category{}).
		Scopes(inState(models.StateActive), excluding(excludeID)).
		Where("category_name = ?", name).
		Count(&count).Error
	return count > 0, err
}

// Exists reports whether an active category with the id exists.
func (r *categoryRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Category{}).
		Scopes(inState(models.StateActive)).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}
