package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/EgehanKilicarslan/inventory-api/internal/api"
	"github.com/EgehanKilicarslan/inventory-api/internal/config"
	"github.com/EgehanKilicarslan/inventory-api/internal/database"
	"github.com/EgehanKilicarslan/inventory-api/internal/database/repository"
	"github.com/EgehanKilicarslan/inventory-api/internal/database/service"
	"github.com/EgehanKilicarslan/inventory-api/internal/handler"
	"github.com/EgehanKilicarslan/inventory-api/internal/logger"
	"github.com/EgehanKilicarslan/inventory-api/internal/middleware"
	"github.com/EgehanKilicarslan/inventory-api/internal/validation"
	"github.com/EgehanKilicarslan/inventory-api/internal/worker"
)

func main() {
	// 1. Config
	cfg := config.LoadConfig()

	// 2. Logger
	appLogger := logger.New(cfg)

	appLogger.Info("🚀 [Go] Starting Inventory API...",
		"environment", cfg.AppEnv,
		"auth_required", cfg.AuthRequired,
	)

	// 3. Error reporting
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.AppEnv,
		}); err != nil {
			appLogger.Warn("⚠️ Failed to initialize Sentry", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// 4. Connect to Database
	db, err := database.Connect(cfg, appLogger)
	if err != nil {
		appLogger.Error("❌ Failed to connect to database", "error", err)
		os.Exit(1)
	}

	// 5. Initialize Repositories
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)

	// 6. Initialize Services
	validator := validation.New()
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg, appLogger)
	categoryService := service.NewCategoryService(categoryRepo, validator, appLogger)
	productService := service.NewProductService(productRepo, categoryRepo, validator, appLogger)
	userService := service.NewUserService(userRepo, refreshTokenRepo, validator, appLogger)

	// 7. Initialize Rate Limiter
	rateLimiter, err := middleware.NewRateLimiter(cfg, appLogger)
	if err != nil {
		appLogger.Warn("⚠️ Failed to connect to Redis, using no-op rate limiter", "error", err)
		rateLimiter = middleware.NewNoOpRateLimiter(appLogger)
	}
	defer rateLimiter.Close()

	// 8. Background workers
	pool := worker.NewPool(appLogger)
	pool.Every("purge-refresh-tokens", time.Duration(cfg.TokenCleanupInterval)*time.Second, func(ctx context.Context) {
		authService.PurgeExpiredTokens(ctx)
	})

	// 9. Handlers, Middleware and Router
	r := api.SetupRouter(cfg, api.Handlers{
		Category: handler.NewCategoryHandler(categoryService, appLogger),
		Product:  handler.NewProductHandler(productService, appLogger),
		User:     handler.NewUserHandler(userService, appLogger),
		Auth:     handler.NewAuthHandler(authService, validator, appLogger),
		Health: handler.NewHealthHandler(func(ctx context.Context) error {
			return database.Ping(ctx, db)
		}, appLogger),
	}, api.Middleware{
		Auth:      middleware.NewAuthMiddleware(authService, appLogger),
		RateLimit: middleware.RateLimit(rateLimiter, appLogger),
		RequestID: middleware.RequestID(appLogger),
	})

	// 10. Start HTTP Server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ApiServicePort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("🌍 [Go] HTTP Server running on port...", "port", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("❌ HTTP Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// 11. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	appLogger.Info("🛑 [Go] Shutting down...", "signal", sig.String())
	timeout := time.Duration(cfg.ShutdownTimeout) * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("❌ HTTP Server forced to shut down", "error", err)
	}

	pool.Shutdown(timeout)

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	appLogger.Info("👋 [Go] Server exited")
}
