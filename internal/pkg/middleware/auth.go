package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/civiclens-app/CivicLens/internal/pkg/identity"
)

const (
	// KeyUserID carries the authenticated citizen id through the request.
	KeyUserID = "userID"
	// KeyAdminID carries the authenticated admin id through the request.
	KeyAdminID = "adminID"
)

func extractBearer(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// CitizenAuth verifies the provider ID token on citizen routes and stores
// the opaque user id in locals.
func CitizenAuth(verifier identity.Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearer(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "No token provided"})
		}
		userID, err := verifier.Verify(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}
		c.Locals(KeyUserID, userID)
		return c.Next()
	}
}

// AdminAuth validates the service-issued admin session token.
func AdminAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractBearer(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "No token provided"})
		}
		adminID, err := identity.ParseAdminToken(secret, token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}
		c.Locals(KeyAdminID, adminID)
		return c.Next()
	}
}
