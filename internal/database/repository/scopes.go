package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/inventory-api/internal/database/models"
)

// inState restricts a query to one lifecycle partition.
func inState(state models.RecordState) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if state == models.StateSoftDeleted {
			return db.Where("deleted_at IS NOT NULL")
		}
		return db.Where("deleted_at IS NULL")
	}
}

// excluding drops a single id from a query; zero means no exclusion.
func excluding(id uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if id == 0 {
			return db
		}
		return db.Where("id <> ?", id)
	}
}

// translate maps driver level failures onto repository errors.
func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateKey
	}
	return err
}

// Repository errors
var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrDuplicateKey     = errors.New("duplicate key")
)
