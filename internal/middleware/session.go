package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/uppa/uppa_core/internal/session"
)

// SessionMiddleware validates the bearer session token and stores the
// session in locals for the handlers.
func SessionMiddleware(manager *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{
				"error":   "missing_session_token",
				"message": "A session token is required. Use Authorization: Bearer YOUR_TOKEN",
			})
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{
				"error":   "invalid_auth_format",
				"message": "Authorization header must be in format: Bearer YOUR_TOKEN",
			})
		}

		token := strings.TrimSpace(parts[1])

		// Resume falls back to the Redis session record when the token
		// was issued by another instance.
		sess, ok := manager.Resume(c.Context(), token)
		if !ok {
			return c.Status(401).JSON(fiber.Map{
				"error":   "invalid_session_token",
				"message": "The provided session token is invalid or has expired",
			})
		}

		c.Locals("session", sess)
		return c.Next()
	}
}

// SessionFromCtx returns the session stored by SessionMiddleware
func SessionFromCtx(c *fiber.Ctx) *session.Session {
	sess, _ := c.Locals("session").(*session.Session)
	return sess
}
