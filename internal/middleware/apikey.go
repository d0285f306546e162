package middleware

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

const apiKeyHeader = "X-API-Key"

// APIKey admits requests whose X-API-Key matches the bcrypt hash. Operators
// store only the hash in configuration.
func APIKey(hash []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(apiKeyHeader)
		if key == "" {
			return fiber.NewError(http.StatusUnauthorized, "missing API key")
		}
		if err := bcrypt.CompareHashAndPassword(hash, []byte(key)); err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid API key")
		}
		return c.Next()
	}
}
