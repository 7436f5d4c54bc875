package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kls/internal/core/kvstore"
)

// Version is reported by /health/info.
const Version = "0.1.0"

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	store  kvstore.Pinger
	driver string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(store kvstore.Pinger, driver string) *HealthHandler {
	return &HealthHandler{store: store, driver: driver}
}

// Live handles liveness probe (is the process alive?).
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready handles readiness probe (can the storage backend be reached?).
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "error",
			"checks": map[string]string{
				"storage": "unhealthy: " + err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"checks": map[string]string{
			"storage": "healthy",
		},
	})
}

// Info returns application information.
// GET /health/info
func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"app":     "kls",
		"version": Version,
		"storage": h.driver,
	})
}
