package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/project-service/internal/api/http/handlers"
	"github.com/spec-kit/project-service/internal/auth"
	apperrors "github.com/spec-kit/project-service/pkg/util"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	GraphQL     *handlers.GraphQLHandler
	Metrics     *handlers.MetricsHandler
	AuthContext *auth.ContextBuilder
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Show)

	app.Post("/graphql", cfg.AuthContext.Handle, cfg.GraphQL.Handle)

	app.Use(func(c *fiber.Ctx) error {
		return apperrors.NewNotFound("route " + c.Method() + " " + c.Path())
	})
}
