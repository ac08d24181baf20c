package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/EgehanKilicarslan/inventory-api/internal/database/models"
	"github.com/EgehanKilicarslan/inventory-api/internal/database/repository"
	"github.com/EgehanKilicarslan/inventory-api/internal/validation"
)

// CategoryService defines the interface for category business logic
type CategoryService interface {
	List(ctx context.Context, page int) (*Page[models.Category], error)
	Create(ctx context.Context, in validation.CategoryInput) (*models.Category, error)
	Get(ctx context.Context, id uint) (*models.Category, error)
	Update(ctx context.Context, id uint, in validation.CategoryInput) (*models.Category, error)
	SoftDelete(ctx context.Context, id uint) error
	ListSoftDeleted(ctx context.Context) ([]models.Category, error)
	Restore(ctx context.Context, id uint) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	validator    *validation.Validator
	logger       *slog.Logger
}

// NewCategoryService creates a new category service instance
func NewCategoryService(
	categoryRepo repository.CategoryRepository,
	validator *validation.Validator,
	logger *slog.Logger,
) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		validator:    validator,
		logger:       logger,
	}
}

func (s *categoryService) List(ctx context.Context, page int) (*Page[models.Category], error) {
	page, offset, limit := window(page, CategoriesPerPage)

	categories, total, err := s.categoryRepo.List(ctx, models.StateActive, offset, limit)
	if err != nil {
		s.logger.Error("❌ [CategoryService] Failed to list categories", "error", err)
		return nil, err
	}

	return newPage(categories, total, page, CategoriesPerPage), nil
}

func (s *categoryService) Create(ctx context.Context, in validation.CategoryInput) (*models.Category, error) {
	if err := s.validator.Category(ctx, &in, s.categoryRepo, 0); err != nil {
		return nil, err
	}

	category := &models.Category{
		CategoryName:        in.CategoryName,
		CategoryDescription: in.CategoryDescription,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, s.writeError(err)
	}

	s.logger.Info("✅ [CategoryService] Category created", "category_id", category.ID)
	return category, nil
}

func (s *categoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	return s.categoryRepo.FindByID(ctx, id, models.StateActive)
}

func (s *categoryService) Update(ctx context.Context, id uint, in validation.CategoryInput) (*models.Category, error) {
	if err := s.validator.Category(ctx, &in, s.categoryRepo, id); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.FindByID(ctx, id, models.StateActive)
	if err != nil {
		return nil, err
	}

	category.CategoryName = in.CategoryName
	category.CategoryDescription = in.CategoryDescription

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, s.writeError(err)
	}

	s.logger.Info("✅ [CategoryService] Category updated", "category_id", id)
	return category, nil
}

func (s *categoryService) SoftDelete(ctx context.Context, id uint) error {
	if err := s.categoryRepo.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("🗑️ [CategoryService] Category soft deleted", "category_id", id)
	return nil
}

func (s *categoryService) ListSoftDeleted(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categoryRepo.ListAll(ctx, models.StateSoftDeleted)
	if err != nil {
		s.logger.Error("❌ [CategoryService] Failed to list soft deleted categories", "error", err)
		return nil, err
	}
	return nonNil(categories), nil
}

func (s *categoryService) Restore(ctx context.Context, id uint) error {
	category, err := s.categoryRepo.FindByID(ctx, id, models.StateSoftDeleted)
	if err != nil {
		return err
	}

	// An active category may have claimed the name in the meantime
	taken, err := s.categoryRepo.NameTaken(ctx, category.CategoryName, id)
	if err != nil {
		return err
	}
	if taken {
		return validation.Single("category_name", validation.Taken("category_name"))
	}

	if err := s.categoryRepo.Restore(ctx, id); err != nil {
		return s.writeError(err)
	}

	s.logger.Info("♻️ [CategoryService] Category restored", "category_id", id)
	return nil
}

// writeError reports a unique violation that raced past validation as a
// field failure.
func (s *categoryService) writeError(err error) error {
	if errors.Is(err, repository.ErrDuplicateKey) {
		s.logger.Warn("⚠️ [CategoryService] Duplicate category name at write time")
		return validation.Single("category_name", validation.Taken("category_name"))
	}
	if !IsNotFound(err) {
		s.logger.Error("❌ [CategoryService] Failed to persist category", "error", err)
	}
	return err
}
