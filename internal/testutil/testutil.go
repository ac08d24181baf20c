// Package testutil holds helpers shared by package tests.
package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/EgehanKilicarslan/inventory-api/internal/config"
	"github.com/EgehanKilicarslan/inventory-api/internal/database/models"
)

// NewTestDB creates a migrated in-memory SQLite database for testing
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Every pooled connection would otherwise get its own empty database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.User{},
		&models.RefreshToken{},
	)
	require.NoError(t, err)

	t.Cleanup(func() { sqlDB.Close() })

	return db
}

// TestConfig returns a config suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		AppEnv:                 "test",
		LogLevel:               slog.LevelError,
		ApiServicePort:         "8080",
		JWTSecret:              "test-secret-key-for-testing-purposes",
		AccessTokenExpiration:  900,
		RefreshTokenExpiration: 604800,
		AuthRequired:           false,
		CORSAllowedOrigins:     []string{"*"},
	}
}

// TestLogger returns a silent logger for testing
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Ptr returns a pointer to v
func Ptr[T any](v T) *T {
	return &v
}
