package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EgehanKilicarslan/inventory-api/internal/database/models"
	"github.com/EgehanKilicarslan/inventory-api/internal/database/repository"
	"github.com/EgehanKilicarslan/inventory-api/internal/database/service"
	"github.com/EgehanKilicarslan/inventory-api/internal/testutil"
	"github.com/EgehanKilicarslan/inventory-api/internal/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnvelope struct {
	StatusCode int                 `json:"status_code"`
	Message    string              `json:"message"`
	Data       json.RawMessage     `json:"data"`
	Meta       *Meta               `json:"meta"`
	Errors     map[string][]string `json:"errors"`
}

// setupRouter registers the catalog routes without the middleware chain
func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()

	db := testutil.NewTestDB(t)
	logger := testutil.TestLogger()
	v := validation.New()

	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)

	categories := NewCategoryHandler(service.NewCategoryService(categoryRepo, v, logger), logger)
	products := NewProductHandler(service.NewProductService(productRepo, categoryRepo, v, logger), logger)
	users := NewUserHandler(service.NewUserService(userRepo, tokenRepo, v, logger), logger)
	auth := NewAuthHandler(service.NewAuthService(userRepo, tokenRepo, testutil.TestConfig(), logger), v, logger)

	r := gin.New()
	r.POST("/auth/login", auth.Login)
	r.POST("/auth/refresh", auth.RefreshToken)
	r.POST("/auth/logout", auth.Logout)

	r.GET("/categories", categories.List)
	r.POST("/categories", categories.Create)
	r.GET("/categories/soft-deleted/archived", categories.ListSoftDeleted)
	r.GET("/categories/:id", categories.Get)
	r.PUT("/categories/:id/update", categories.Update)
	r.DELETE("/categories/:id", categories.SoftDelete)
	r.PATCH("/categories/:id", categories.Restore)

	r.GET("/products", products.List)
	r.POST("/products", products.Create)
	r.GET("/products/soft-deleted/archived", products.ListSoftDeleted)
	r.GET("/products/:id", products.Get)
	r.PUT("/products/:id/update", products.Update)
	r.DELETE("/products/:id", products.SoftDelete)
	r.PATCH("/products/:id", products.Restore)

	r.GET("/users", users.List)
	r.POST("/users", users.Create)
	r.GET("/users/soft-deleted/archived", users.ListSoftDeleted)
	r.GET("/users/:id", users.Get)
	r.PATCH("/users/:id", users.Update)
	r.DELETE("/users/:id", users.SoftDelete)
	r.PATCH("/users/:id/restore", users.Restore)
	r.GET("/user", func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User"); id != "" {
			var userID uint
			fmt.Sscan(id, &userID)
			c.Set("userID", userID)
		}
		users.Me(c)
	})

	return r
}

func doRequest(t *testing.T, r http.Handler, method, path string, body any) (*httptest.ResponseRecorder, testEnvelope) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env testEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	assert.Equal(t, w.Code, env.StatusCode, "status_code mirrors the transport status")
	return w, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestCategoryLifecycle(t *testing.T) {
	r := setupRouter(t)

	w, env := doRequest(t, r, http.MethodPost, "/categories", gin.H{"category_name": "Tools"})
	require.Equal(t, http.StatusOK, w.Code)
	created := decode[models.Category](t, env.Data)
	assert.Equal(t, "Tools", created.CategoryName)
	path := fmt.Sprintf("/categories/%d", created.ID)

	w, env = doRequest(t, r, http.MethodPost, "/categories", gin.H{"category_name": "Tools"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "The category name has already been taken.", env.Message)
	assert.Equal(t, []string{"The category name has already been taken."}, env.Errors["category_name"])

	w, _ = doRequest(t, r, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = doRequest(t, r, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Category not found.", env.Message)

	w, env = doRequest(t, r, http.MethodGet, "/categories/soft-deleted/archived", nil)
	require.Equal(t, http.StatusOK, w.Code)
	archived := decode[[]models.Category](t, env.Data)
	require.Len(t, archived, 1)
	assert.Equal(t, created.ID, archived[0].ID)

	w, _ = doRequest(t, r, http.MethodPatch, path, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = doRequest(t, r, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	restored := decode[models.Category](t, env.Data)
	assert.Equal(t, "Tools", restored.CategoryName)
	assert.Nil(t, restored.DeletedAt)

	// Restoring an active category
	w, env = doRequest(t, r, http.MethodPatch, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Soft-deleted category not found.", env.Message)
}

func TestCategoryUpdate(t *testing.T) {
	r := setupRouter(t)

	_, env := doRequest(t, r, http.MethodPost, "/categories", gin.H{"category_name": "Tools"})
	tools := decode[models.Category](t, env.Data)
	doRequest(t, r, http.MethodPost, "/categories", gin.H{"category_name": "Garden"})

	path := fmt.Sprintf("/categories/%d/update", tools.ID)

	w, env := doRequest(t, r, http.MethodPut, path, gin.H{"category_name": "Hand tools", "category_description": "Manual"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Category is updated successfully.", env.Message)
	updated := decode[models.Category](t, env.Data)
	assert.Equal(t, "Hand tools", updated.CategoryName)

	w, env = doRequest(t, r, http.MethodPut, path, gin.H{"category_name": "Garden"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, env.Errors, "category_name")

	w, _ = doRequest(t, r, http.MethodPut, "/categories/999/update", gin.H{"category_name": "Other"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCategoryListPagination(t *testing.T) {
	r := setupRouter(t)

	w, env := doRequest(t, r, http.MethodGet, "/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", string(env.Data))
	require.NotNil(t, env.Meta)
	assert.Nil(t, env.Meta.Pagination.Links.Next)

	for i := 0; i < 21; i++ {
		doRequest(t, r, http.MethodPost, "/categories", gin.H{"category_name": fmt.Sprintf("Category %02d", i)})
	}

	w, env = doRequest(t, r, http.MethodGet, "/categories?page=abc", nil)
	require.Equal(t, http.StatusOK, w.Code)
	p := env.Meta.Pagination
	assert.Equal(t, int64(21), p.Total)
	assert.Equal(t, 20, p.Count)
	assert.Equal(t, 20, p.PerPage)
	assert.Equal(t, 1, p.CurrentPage)
	assert.Equal(t, 2, p.TotalPages)
	require.NotNil(t, p.Links.Next)
	assert.Equal(t, "http://example.com/categories?page=2", *p.Links.Next)

	_, env = doRequest(t, r, http.MethodGet, "/categories?page=2", nil)
	assert.Equal(t, 1, env.Meta.Pagination.Count)
	assert.Nil(t, env.Meta.Pagination.Links.Next)
}

func TestRequestErrors(t *testing.T) {
	r := setupRouter(t)

	t.Run("non numeric id", func(t *testing.T) {
		w, env := doRequest(t, r, http.MethodGet, "/products/abc", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Product not found.", env.Message)
	})

	t.Run("malformed json", func(t *testing.T) {
		w, env := doRequest(t, r, http.MethodPost, "/categories", "{invalid")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, MessageMalformedJSON, env.Message)
	})

	t.Run("wrong json type", func(t *testing.T) {
		w, env := doRequest(t, r, http.MethodPost, "/categories", `{"category_name": 42}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "The category name must be a string.", env.Message)
	})

	t.Run("empty body reports required fields", func(t *testing.T) {
		w, env := doRequest(t, r, http.MethodPost, "/users", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Len(t, env.Errors, 5)
	})

	t.Run("wrong json type alongside missing fields", func(t *testing.T) {
		w, env := doRequest(t, r, http.MethodPost, "/products", `{"product_name": 5}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, map[string][]string{
			"product_name": {"The product name must be a string."},
			"product_sku":  {"The product sku field is required."},
			"category_id":  {"The category id field is required."},
		}, env.Errors)
		assert.Equal(t, "The category id field is required.", env.Message)
	})

	t.Run("negative category id", func(t *testing.T) {
		w, env := doRequest(t, r, http.MethodPost, "/products", `{"product_name": "Hammer", "product_sku": "HAM-001", "category_id": -1}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, []string{"The category id must be an integer."}, env.Errors["category_id"])
	})

	t.Run("body that is not an object", func(t *testing.T) {
		w, env := doRequest(t, r, http.MethodPost, "/categories", `["Tools"]`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, MessageMalformedJSON, env.Message)
	})

	t.Run("id beyond bigint range", func(t *testing.T) {
		w, env := doRequest(t, r, http.MethodGet, "/categories/9223372036854775808", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Category not found.", env.Message)
	})

	t.Run("page beyond any offset", func(t *testing.T) {
		w, env := doRequest(t, r, http.MethodGet, "/categories?page=9223372036854775807", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", string(env.Data))
		assert.Equal(t, math.MaxInt, env.Meta.Pagination.CurrentPage)
		assert.Equal(t, 1, env.Meta.Pagination.TotalPages)
		assert.Nil(t, env.Meta.Pagination.Links.Next)
	})
}

func TestProductEndpoints(t *testing.T) {
	r := setupRouter(t)

	_, env := doRequest(t, r, http.MethodPost, "/categories", gin.H{"category_name": "Tools"})
	tools := decode[models.Category](t, env.Data)

	t.Run("nonexistent category", func(t *testing.T) {
		w, env := doRequest(t, r, http.MethodPost, "/products", gin.H{
			"product_name": "Hammer",
			"product_sku":  "HAM-001",
			"category_id":  999,
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, []string{"The selected category id is invalid."}, env.Errors["category_id"])
	})

	w, env := doRequest(t, r, http.MethodPost, "/products", gin.H{
		"product_name":        "Hammer",
		"product_sku":         "HAM-001",
		"category_id":         tools.ID,
		"product_description": "Claw hammer",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Product is added successfully.", env.Message)

	body := decode[map[string]any](t, env.Data)
	assert.Equal(t, "Hammer", body["product_name"])
	assert.Equal(t, "HAM-001", body["product_sku"])
	assert.Equal(t, float64(tools.ID), body["product_category_id"])
	assert.Equal(t, "Tools", body["product_category"])
	assert.Equal(t, "Claw hammer", body["product_description"])
	assert.NotContains(t, body, "deleted_at")

	productID := uint(body["product_id"].(float64))
	path := fmt.Sprintf("/products/%d", productID)

	w, env = doRequest(t, r, http.MethodGet, "/products", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 10, env.Meta.Pagination.PerPage)
	listed := decode[[]ProductResponse](t, env.Data)
	require.Len(t, listed, 1)
	assert.Equal(t, "Tools", listed[0].ProductCategory)

	w, env = doRequest(t, r, http.MethodPut, path+"/update", gin.H{
		"product_name": "Hammer XL",
		"product_sku":  "HAM-001",
		"category_id":  tools.ID,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hammer XL", decode[ProductResponse](t, env.Data).ProductName)

	w, _ = doRequest(t, r, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, env = doRequest(t, r, http.MethodGet, "/products/soft-deleted/archived", nil)
	archived := decode[[]map[string]any](t, env.Data)
	require.Len(t, archived, 1)
	assert.NotNil(t, archived[0]["deleted_at"])

	w, _ = doRequest(t, r, http.MethodPatch, path, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doRequest(t, r, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUserEndpoints(t *testing.T) {
	r := setupRouter(t)

	w, env := doRequest(t, r, http.MethodPost, "/users", gin.H{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"username":   "ada",
		"email":      "ada@example.com",
		"password":   "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, string(env.Data), "password")
	user := decode[models.User](t, env.Data)
	path := fmt.Sprintf("/users/%d", user.ID)

	w, env = doRequest(t, r, http.MethodPatch, path, gin.H{"middle_name": "King"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "King", *decode[models.User](t, env.Data).MiddleName)

	w, env = doRequest(t, r, http.MethodPatch, path, gin.H{"email": "not-an-email"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "The email must be a valid email address.", env.Message)

	w, env = doRequest(t, r, http.MethodPatch, path, gin.H{"first_name": "", "last_name": "   ", "username": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, map[string][]string{
		"first_name": {"The first name field is required."},
		"last_name":  {"The last name field is required."},
		"username":   {"The username field is required."},
	}, env.Errors)

	w, env = doRequest(t, r, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ada", decode[models.User](t, env.Data).FirstName)

	t.Run("password over bcrypt limit", func(t *testing.T) {
		long := strings.Repeat("é", 40)

		w, env := doRequest(t, r, http.MethodPost, "/users", gin.H{
			"first_name": "Grace",
			"last_name":  "Hopper",
			"username":   "grace",
			"email":      "grace@example.com",
			"password":   long,
		})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, []string{"The password may not be greater than 72 bytes."}, env.Errors["password"])

		w, env = doRequest(t, r, http.MethodPatch, path, gin.H{"password": long})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "The password may not be greater than 72 bytes.", env.Message)
	})

	t.Run("login refresh logout", func(t *testing.T) {
		w, env := doRequest(t, r, http.MethodPost, "/auth/login", gin.H{"email": "ada@example.com", "password": "password123"})
		require.Equal(t, http.StatusOK, w.Code)
		tokens := decode[AuthResponse](t, env.Data)
		assert.Equal(t, "Bearer", tokens.TokenType)
		assert.NotEmpty(t, tokens.AccessToken)

		w, _ = doRequest(t, r, http.MethodPost, "/auth/login", gin.H{"email": "ada@example.com", "password": "wrong-password"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w, env = doRequest(t, r, http.MethodPost, "/auth/refresh", gin.H{"refresh_token": tokens.RefreshToken})
		require.Equal(t, http.StatusOK, w.Code)
		rotated := decode[AuthResponse](t, env.Data)

		// The old refresh token was rotated out
		w, _ = doRequest(t, r, http.MethodPost, "/auth/refresh", gin.H{"refresh_token": tokens.RefreshToken})
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w, _ = doRequest(t, r, http.MethodPost, "/auth/logout", gin.H{"refresh_token": rotated.RefreshToken})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("current user", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/user", nil)
		req.Header.Set("X-Test-User", fmt.Sprint(user.ID))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"username":"ada"`)

		w, _ = doRequest(t, r, http.MethodGet, "/user", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	w, _ = doRequest(t, r, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, env = doRequest(t, r, http.MethodGet, "/users/soft-deleted/archived", nil)
	assert.Len(t, decode[[]models.User](t, env.Data), 1)

	w, _ = doRequest(t, r, http.MethodPost, "/auth/login", gin.H{"email": "ada@example.com", "password": "password123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doRequest(t, r, http.MethodPatch, path+"/restore", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = doRequest(t, r, http.MethodPatch, path+"/restore", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Soft-deleted user not found.", env.Message)
}

// failingCategories answers every call with a storage failure
type failingCategories struct {
	service.CategoryService
}

func (failingCategories) Get(context.Context, uint) (*models.Category, error) {
	return nil, errors.New("pq: connection refused")
}

func TestInternalErrorsDoNotLeak(t *testing.T) {
	h := NewCategoryHandler(failingCategories{}, testutil.TestLogger())
	r := gin.New()
	r.GET("/categories/:id", h.Get)

	w, env := doRequest(t, r, http.MethodGet, "/categories/1", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, MessageInternalError, env.Message)
	assert.NotContains(t, w.Body.String(), "pq")
}

func TestHealth(t *testing.T) {
	r := gin.New()
	healthy := NewHealthHandler(func(context.Context) error { return nil }, testutil.TestLogger())
	broken := NewHealthHandler(func(context.Context) error { return errors.New("down") }, testutil.TestLogger())
	r.GET("/health", healthy.Health)
	r.GET("/broken", broken.Health)

	w, env := doRequest(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))

	w, _ = doRequest(t, r, http.MethodGet, "/broken", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
