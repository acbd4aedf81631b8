// middleware/auth.go
package middleware

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// UserContextMiddleware extracts the user identity set by the Gateway.
// Secured routes get the numeric user id in c.Locals("user_id").
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get("X-User-ID")
		if raw == "" {
			log.Printf("❌ [USER_CTX] X-User-ID required but missing on secured route: %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID — request must come through gateway with auth context",
			})
		}

		userID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || userID == 0 {
			log.Printf("❌ [USER_CTX] Malformed X-User-ID %q on %s", raw, c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "malformed X-User-ID",
			})
		}

		c.Locals("user_id", uint(userID))
		return c.Next()
	}
}

// UserID reads the authenticated user id placed by UserContextMiddleware.
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("user_id").(uint)
	return id
}

// OptionalUserContextMiddleware attaches the user id when present but lets
// anonymous requests through. Used on public reads that personalize output.
func OptionalUserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if raw := c.Get("X-User-ID"); raw != "" {
			if userID, err := strconv.ParseUint(raw, 10, 64); err == nil && userID > 0 {
				c.Locals("user_id", uint(userID))
			}
		}
		return c.Next()
	}
}
