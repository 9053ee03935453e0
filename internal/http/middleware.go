package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/auth"
)

const userIDKey = "userID"

// RequireAuth resolves the caller from a Bearer token and stores the user
// id in the request locals. Every protected route runs behind it.
func RequireAuth(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing or malformed token"})
		}
		claims, err := auth.ValidateToken(token, secret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid or expired token"})
		}
		c.Locals(userIDKey, claims.UserID)
		return c.Next()
	}
}

func callerID(c *fiber.Ctx) string {
	id, _ := c.Locals(userIDKey).(string)
	return id
}
