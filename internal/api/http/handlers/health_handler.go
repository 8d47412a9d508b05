package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/project-service/pkg/util"
)

// Pinger checks that a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	store       Pinger
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, store Pinger) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, store: store}
}

// Live reports service liveness. It never touches dependencies.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready reports service readiness by pinging the document store.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		return apperrors.NewServiceUnavailable("one or more dependencies unavailable", map[string]any{
			"store": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"status":       "ready",
		"service":      h.serviceName,
		"version":      h.version,
		"dependencies": fiber.Map{"store": "ok"},
	})
}
