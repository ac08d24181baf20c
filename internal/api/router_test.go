package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/inventory-api/internal/config"
	"github.com/EgehanKilicarslan/inventory-api/internal/database"
	"github.com/EgehanKilicarslan/inventory-api/internal/database/repository"
	"github.com/EgehanKilicarslan/inventory-api/internal/database/service"
	"github.com/EgehanKilicarslan/inventory-api/internal/handler"
	"github.com/EgehanKilicarslan/inventory-api/internal/middleware"
	"github.com/EgehanKilicarslan/inventory-api/internal/testutil"
	"github.com/EgehanKilicarslan/inventory-api/internal/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()

	db := testutil.NewTestDB(t)
	logger := testutil.TestLogger()
	v := validation.New()

	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)

	authService := service.NewAuthService(userRepo, tokenRepo, cfg, logger)

	return SetupRouter(cfg, Handlers{
		Category: handler.NewCategoryHandler(service.NewCategoryService(categoryRepo, v, logger), logger),
		Product:  handler.NewProductHandler(service.NewProductService(productRepo, categoryRepo, v, logger), logger),
		User:     handler.NewUserHandler(service.NewUserService(userRepo, tokenRepo, v, logger), logger),
		Auth:     handler.NewAuthHandler(authService, v, logger),
		Health:   handler.NewHealthHandler(func(ctx context.Context) error { return database.Ping(ctx, db) }, logger),
	}, Middleware{
		Auth:      middleware.NewAuthMiddleware(authService, logger),
		RateLimit: middleware.RateLimit(middleware.NewNoOpRateLimiter(logger), logger),
		RequestID: middleware.RequestID(logger),
	})
}

func serve(r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_PublicRoutes(t *testing.T) {
	cfg := testutil.TestConfig()
	cfg.AuthRequired = true
	r := newTestRouter(t, cfg)

	w := serve(r, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = serve(r, http.MethodGet, "/api/v1/categories", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_AuthenticatedFlow(t *testing.T) {
	cfg := testutil.TestConfig()
	cfg.AuthRequired = true
	r := newTestRouter(t, cfg)

	w := serve(r, http.MethodPost, "/api/v1/users", "", gin.H{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"username":   "ada",
		"email":      "ada@example.com",
		"password":   "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = serve(r, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "ada@example.com", "password": "password123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var login struct {
		Data handler.AuthResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	token := login.Data.AccessToken

	w = serve(r, http.MethodGet, "/api/v1/user", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"ada"`)

	w = serve(r, http.MethodPost, "/api/v1/categories", token, gin.H{"category_name": "Tools"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodGet, "/api/v1/categories/soft-deleted/archived", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodGet, "/api/v1/users/soft-deleted/archived", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_AuthDisabled(t *testing.T) {
	r := newTestRouter(t, testutil.TestConfig())

	w := serve(r, http.MethodGet, "/api/v1/products", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodPut, "/api/v1/products/1/update", "", gin.H{})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_CORS(t *testing.T) {
	cfg := testutil.TestConfig()
	cfg.CORSAllowedOrigins = []string{"https://shop.example.com"}
	r := newTestRouter(t, cfg)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/categories", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://shop.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCorsConfig(t *testing.T) {
	cfg := &config.Config{CORSAllowedOrigins: []string{"*"}}
	assert.True(t, corsConfig(cfg).AllowAllOrigins)

	cfg.CORSAllowedOrigins = nil
	assert.True(t, corsConfig(cfg).AllowAllOrigins)

	cfg.CORSAllowedOrigins = []string{"https://a.example.com"}
	c := corsConfig(cfg)
	assert.False(t, c.AllowAllOrigins)
	assert.Equal(t, []string{"https://a.example.com"}, c.AllowOrigins)
}
