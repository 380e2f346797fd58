package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

type healthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}

// Health GET /health（資料庫無法連線時回 503）
func (h *Handler) Health(c *gin.Context) {
	resp := healthResponse{
		Status:    "healthy",
		Service:   "cartquest",
		Database:  "ok",
		Timestamp: time.Now().UTC(),
	}
	if h.health == nil {
		resp.Database = "unchecked"
		c.JSON(http.StatusOK, resp)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.health(ctx); err != nil {
		h.log.WithError(err).Warn("Health check failed")
		resp.Status = "degraded"
		resp.Database = "unreachable"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
