package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing store is reachable.
type Pinger func(ctx context.Context) error

// HealthHandler reports service liveness
type HealthHandler struct {
	ping   Pinger
	logger *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(ping Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{ping: ping, logger: logger}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.ping(ctx); err != nil {
		h.logger.Error("❌ [HealthHandler] Database unreachable", "error", err)
		respond(c, http.StatusServiceUnavailable, "Service unavailable.", gin.H{"status": "unavailable"})
		return
	}

	respond(c, http.StatusOK, MessageOK, gin.H{"status": "ok"})
}
