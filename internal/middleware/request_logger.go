package middleware

import (
	"time"

	"go-household-inventory/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// RequestLogger attaches a request-scoped logger to the user context and
// writes one line per request. It must run after the requestid middleware.
func RequestLogger(logg *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID := c.GetRespHeader(fiber.HeaderXRequestID)
		ctx := logg.WithRequest(c.UserContext(), requestID, c.Method(), c.Path())
		c.SetUserContext(ctx)

		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		level := zerolog.InfoLevel
		switch {
		case status >= fiber.StatusInternalServerError:
			level = zerolog.ErrorLevel
		case status >= fiber.StatusBadRequest:
			level = zerolog.WarnLevel
		}

		logg.Log(logg.WithFields(ctx, map[string]any{
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
		}), level, "request completed")
		return nil
	}
}
