package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"carrest/internal/core/tx"
	"carrest/internal/infrastructure/http/v1/dto"
	"carrest/pkg/logger"
)

const readyTimeout = 2 * time.Second

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	storage tx.Pinger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(storage tx.Pinger) *HealthHandler {
	return &HealthHandler{storage: storage}
}

// Live handles liveness probe.
// Returns 200 if the process is running.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}

// Ready handles readiness probe.
// Returns 200 if storage answers a ping, 503 otherwise.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()

	if err := h.storage.Ping(ctx); err != nil {
		logger.Warn(ctx, "readiness check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, dto.HealthResponse{
			Status: "unavailable",
			Checks: map[string]string{"storage": "unavailable"},
		})
		return
	}

	c.JSON(http.StatusOK, dto.HealthResponse{
		Status: "ok",
		Checks: map[string]string{"storage": "ok"},
	})
}
