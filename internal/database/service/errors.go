package service

import (
	"errors"

	"github.com/EgehanKilicarslan/inventory-api/internal/database/repository"
)

// Service errors
var (
	ErrCategoryNotFound   = repository.ErrCategoryNotFound
	ErrProductNotFound    = repository.ErrProductNotFound
	ErrUserNotFound       = repository.ErrUserNotFound
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// IsNotFound reports whether err means the record is absent from the
// requested state partition.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCategoryNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrUserNotFound)
}
