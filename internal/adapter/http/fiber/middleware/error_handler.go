package middleware

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/voice-relay/internal/domain"
)

// ErrorHandler renders every failure as {"error": ..., "detail"?: ...}.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		body := fiber.Map{"error": err.Error()}
		kind := "internal"

		if re, ok := domain.AsRelayError(err); ok {
			code = re.Status
			kind = re.Kind.String()
			body = fiber.Map{"error": re.Message}
			if re.Detail != "" {
				body["detail"] = re.Detail
			}
		} else if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		if code >= fiber.StatusInternalServerError {
			log.Error("Request failed",
				zap.Error(err),
				zap.String("kind", kind),
				zap.Int("status", code),
				zap.String("path", c.Path()),
			)
		}

		return c.Status(code).JSON(body)
	}
}
