package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"github.com/EgehanKilicarslan/inventory-api/internal/database/service"
	"github.com/EgehanKilicarslan/inventory-api/internal/validation"
)

// Envelope is the uniform body of every API response.
type Envelope struct {
	StatusCode int               `json:"status_code"`
	Message    string            `json:"message"`
	Data       any               `json:"data,omitempty"`
	Meta       *Meta             `json:"meta,omitempty"`
	Errors     validation.Errors `json:"errors,omitempty"`
}

type Meta struct {
	Pagination Pagination `json:"pagination"`
}

type Pagination struct {
	Total       int64 `json:"total"`
	Count       int   `json:"count"`
	PerPage     int   `json:"per_page"`
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	Links       Links `json:"links"`
}

type Links struct {
	Next *string `json:"next"`
}

const (
	MessageOK            = "OK"
	MessageInternalError = "Something went wrong."
	MessageMalformedJSON = "Malformed JSON request body."
)

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{StatusCode: status, Message: message, Data: data})
}

// respondPage writes one page of a listing with its pagination meta.
func respondPage[T any, R any](c *gin.Context, page *service.Page[T], format func(*T) R) {
	items := make([]R, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, format(&page.Items[i]))
	}

	var next *string
	if page.HasNext() {
		link := pageURL(c, page.CurrentPage+1)
		next = &link
	}

	c.JSON(http.StatusOK, Envelope{
		StatusCode: http.StatusOK,
		Message:    MessageOK,
		Data:       items,
		Meta: &Meta{Pagination: Pagination{
			Total:       page.Total,
			Count:       len(items),
			PerPage:     page.PerPage,
			CurrentPage: page.CurrentPage,
			TotalPages:  page.TotalPages(),
			Links:       Links{Next: next},
		}},
	})
}

func identity[T any](v *T) T { return *v }

// pageURL rebuilds the absolute request URL pointing at another page.
func pageURL(c *gin.Context, page int) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	query := c.Request.URL.Query()
	query.Set("page", strconv.Itoa(page))

	u := url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: query.Encode(),
	}
	return u.String()
}

// pageParam reads ?page=, falling back to the first page.
func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// parseID reads the :id path parameter. An id that cannot name a record,
// including one beyond the BIGINT range of the id columns, is answered as
// not found.
func parseID(c *gin.Context, notFound string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 63)
	if err != nil || id == 0 {
		respond(c, http.StatusNotFound, notFound, nil)
		return 0, false
	}
	return uint(id), true
}

// bindJSON decodes the request body. An empty body binds as an empty object
// and a wrongly typed field is left for the field rules to report, so every
// failing field comes back in one response.
func bindJSON(c *gin.Context, logger *slog.Logger, dst any) bool {
	body, err := c.GetRawData()
	if err == nil {
		err = validation.DecodeJSON(body, dst)
	}
	if err == nil {
		return true
	}

	logger.Warn("⚠️ [Handler] Malformed request body", "path", c.FullPath(), "error", err)
	respond(c, http.StatusBadRequest, MessageMalformedJSON, nil)
	return false
}

// handleServiceError maps service errors to HTTP responses
func handleServiceError(c *gin.Context, logger *slog.Logger, err error, notFound string) {
	if errs, ok := validation.AsErrors(err); ok {
		c.JSON(http.StatusUnprocessableEntity, Envelope{
			StatusCode: http.StatusUnprocessableEntity,
			Message:    errs.First(),
			Errors:     errs,
		})
		return
	}

	switch {
	case service.IsNotFound(err):
		respond(c, http.StatusNotFound, notFound, nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		respond(c, http.StatusUnauthorized, "Invalid email or password.", nil)
	case errors.Is(err, service.ErrInvalidToken):
		respond(c, http.StatusUnauthorized, "Invalid or expired token.", nil)
	default:
		logger.Error("❌ [Handler] Internal server error", "path", c.FullPath(), "error", err)
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		respond(c, http.StatusInternalServerError, MessageInternalError, nil)
	}
}
