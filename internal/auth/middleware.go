package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const localsUserKey = "auth_user_id"

// Middleware parses and verifies the Bearer token and stores the caller's
// user id for downstream handlers.
func Middleware(issuer *TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization header",
			})
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header",
			})
		}

		claims, err := issuer.Verify(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(localsUserKey, claims.UserID)
		return c.Next()
	}
}

// UserID returns the authenticated caller's user id set by Middleware.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(localsUserKey).(string)
	return id
}
