package middleware

import (
	"log"
	"strings"

	"shopapi/internal/services"

	"github.com/gofiber/fiber/v2"
)

const identityKey = "identity"

// AuthRequired is a Fiber middleware that checks for a valid access token
// and stores the caller's identity in the request context.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		claims, err := authService.ValidateAccessToken(parts[1])
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		identity := services.Identity{}
		identity.UserID, _ = claims["user_id"].(string)
		identity.Username, _ = claims["username"].(string)
		identity.IsSeller, _ = claims["is_seller"].(bool)
		identity.IsAdmin, _ = claims["is_admin"].(bool)
		c.Locals(identityKey, identity)

		return c.Next()
	}
}

// IdentityFrom returns the authenticated identity stored by AuthRequired.
// The zero Identity is returned on unauthenticated routes.
func IdentityFrom(c *fiber.Ctx) services.Identity {
	identity, _ := c.Locals(identityKey).(services.Identity)
	return identity
}
