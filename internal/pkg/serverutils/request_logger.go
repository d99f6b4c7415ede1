package serverutils

import (
	"time"

	"hipaai-chat-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// RequestLoggerMiddleware writes one structured log line per request.
// Registered before the error handler so the final status code is visible.
func RequestLoggerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		log.Info("http", "request completed", map[string]interface{}{
			"method":      ctx.Method(),
			"path":        ctx.Path(),
			"action":      ctx.Query("action"),
			"status":      ctx.Response().StatusCode(),
			"duration_ms": time.Since(start).Milliseconds(),
		})

		return err
	}
}
