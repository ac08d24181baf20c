package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/EgehanKilicarslan/inventory-api/internal/config"
)

//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations holding the goose files.
const MigrationsDir = "migrations"

const (
	maxRetries = 30
	retryDelay = 2 * time.Second
)

// Connect opens the PostgreSQL connection, waits for the server and applies migrations.
func Connect(cfg *config.Config, log *slog.Logger) (*gorm.DB, error) {
	log.Info("🔌 [Database] Connecting to PostgreSQL...",
		"host", cfg.PostgreSQLHost,
		"port", cfg.PostgreSQLPort,
		"database", cfg.PostgreSQLDatabase,
	)

	var db *gorm.DB
	var err error

	// Retry until the database accepts connections
	for i := 0; i < maxRetries; i++ {
		db, err = Open(postgres.Open(cfg.DSN()))
		if err == nil {
			if err = Ping(context.Background(), db); err == nil {
				break
			}
		}

		if i < maxRetries-1 {
			log.Warn("⏳ [Database] Connection failed, retrying...",
				"attempt", i+1,
				"max_retries", maxRetries,
				"retry_in", retryDelay,
				"error", err,
			)
			time.Sleep(retryDelay)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL after %d attempts: %w", maxRetries, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	log.Info("✅ [Database] Database connection established")

	log.Info("🔄 [Database] Running migrations...")
	if err := RunMigrations(sqlDB, "postgres"); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("✅ [Database] Migrations completed successfully")

	return db, nil
}

// Open wraps gorm.Open with the settings every connection of the service uses.
// Driver errors are translated so unique violations surface as gorm.ErrDuplicatedKey.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
}

// RunMigrations applies every pending embedded goose migration.
func RunMigrations(sqlDB *sql.DB, dialect string) error {
	goose.SetBaseFS(Migrations)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(sqlDB, MigrationsDir); err != nil {
		return fmt.Errorf("failed to run goose migrations: %w", err)
	}

	return nil
}

// Ping checks that the database answers within the context deadline.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
