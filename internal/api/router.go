package api

import (
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/inventory-api/internal/config"
	"github.com/EgehanKilicarslan/inventory-api/internal/handler"
	"github.com/EgehanKilicarslan/inventory-api/internal/middleware"
)

// Handlers groups the HTTP handlers served by the router
type Handlers struct {
	Category *handler.CategoryHandler
	Product  *handler.ProductHandler
	User     *handler.UserHandler
	Auth     *handler.AuthHandler
	Health   *handler.HealthHandler
}

// Middleware groups the request middleware applied by the router
type Middleware struct {
	Auth      *middleware.AuthMiddleware
	RateLimit gin.HandlerFunc
	RequestID gin.HandlerFunc
}

func SetupRouter(cfg *config.Config, h Handlers, m Middleware) *gin.Engine {
	r := gin.New()
	r.SetTrustedProxies(nil)

	r.Use(gin.Recovery())
	if cfg.SentryDSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if m.RequestID != nil {
		r.Use(m.RequestID)
	}
	r.Use(cors.New(corsConfig(cfg)))
	if m.RateLimit != nil {
		r.Use(m.RateLimit)
	}

	v1 := r.Group("/api/v1")

	// Public routes
	v1.GET("/health", h.Health.Health)

	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.RefreshToken)
		authGroup.POST("/logout", h.Auth.Logout)
	}

	// Sign-up
	v1.POST("/users", h.User.Create)

	// Protected API routes
	protected := v1.Group("")
	if cfg.AuthRequired {
		protected.Use(m.Auth.RequireAuth())
	}
	{
		protected.GET("/user", h.User.Me)

		categories := protected.Group("/categories")
		categories.GET("", h.Category.List)
		categories.POST("", h.Category.Create)
		categories.GET("/soft-deleted/archived", h.Category.ListSoftDeleted)
		categories.GET("/:id", h.Category.Get)
		categories.PUT("/:id/update", h.Category.Update)
		categories.DELETE("/:id", h.Category.SoftDelete)
		categories.PATCH("/:id", h.Category.Restore)

		products := protected.Group("/products")
		products.GET("", h.Product.List)
		products.POST("", h.Product.Create)
		products.GET("/soft-deleted/archived", h.Product.ListSoftDeleted)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id/update", h.Product.Update)
		products.DELETE("/:id", h.Product.SoftDelete)
		products.PATCH("/:id", h.Product.Restore)

		users := protected.Group("/users")
		users.GET("", h.User.List)
		users.GET("/soft-deleted/archived", h.User.ListSoftDeleted)
		users.GET("/:id", h.User.Get)
		users.PATCH("/:id", h.User.Update)
		users.DELETE("/:id", h.User.SoftDelete)
		users.PATCH("/:id/restore", h.User.Restore)
	}

	return r
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	if len(cfg.CORSAllowedOrigins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	for _, origin := range cfg.CORSAllowedOrigins {
		if origin == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	c.AllowOrigins = cfg.CORSAllowedOrigins
	return c
}
