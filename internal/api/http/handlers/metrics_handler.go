package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/project-service/internal/observability"
)

// MetricsHandler exposes the in-memory request counters.
type MetricsHandler struct {
	metrics *observability.Metrics
}

// NewMetricsHandler constructs handler.
func NewMetricsHandler(metrics *observability.Metrics) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Show GET /metrics.
func (h *MetricsHandler) Show(c *fiber.Ctx) error {
	return c.JSON(h.metrics.Snapshot())
}
