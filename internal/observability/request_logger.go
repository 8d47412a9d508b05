package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request and feeds the request counters.
// Register it outside the error handling middleware so the logged status is the one sent.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		// Route pattern rather than raw path keeps the counter keys bounded.
		metrics.RecordRequest(c.Route().Path, c.Method(), status, latency)

		// fiber reuses the request buffers once the handler returns; log fields may outlive it.
		fields := []zap.Field{
			zap.String("method", utils.CopyString(c.Method())),
			zap.String("path", utils.CopyString(c.Path())),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("ip", utils.CopyString(c.IP())),
		}
		if err != nil {
			fields = append(fields, zap.Error(err))
		}
		logger.Info("request", fields...)
		return err
	}
}
