package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

const SharedSecretHeader = "X-Relay-Secret"

// SharedSecret rejects requests whose X-Relay-Secret header does not match
// secret. An empty secret disables the check.
func SharedSecret(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return c.Next()
		}

		provided := c.Get(SharedSecretHeader)
		if provided == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing relay secret header"})
		}
		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid relay secret"})
		}

		return c.Next()
	}
}
