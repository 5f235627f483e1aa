package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sge-edu/sge-api/internal/service"
)

// SystemHandler exposes health and observability endpoints.
type SystemHandler struct {
	metrics *service.MetricsService
	ping    func(ctx context.Context) error
}

// NewSystemHandler constructs a system handler. The ping function checks
// connectivity to the backing database.
func NewSystemHandler(metrics *service.MetricsService, ping func(ctx context.Context) error) *SystemHandler {
	return &SystemHandler{metrics: metrics, ping: ping}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *SystemHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health reports whether the database answers a ping.
func (h *SystemHandler) Health(c *gin.Context) {
	if h.ping != nil {
		if err := h.ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
