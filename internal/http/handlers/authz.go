package handlers

import (
	"strings"

	applog "tradewind/internal/log"
	"tradewind/internal/domain"
	"tradewind/internal/services"

	"github.com/gofiber/fiber/v2"
)

// RequireUser gates a route on a valid bearer token and stores the claims
// in Locals for the handler.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return fail(c, fiber.StatusUnauthorized, "Missing authorization header")
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return fail(c, fiber.StatusUnauthorized, "Authorization header format must be Bearer {token}")
		}
		claims, err := auth.ParseToken(parts[1])
		if err != nil {
			applog.Security(c, "auth.token.invalid", map[string]any{"err": err.Error()})
			return fail(c, fiber.StatusUnauthorized, "Invalid or expired token")
		}
		c.Locals("userID", claims.ID)
		c.Locals("role", claims.Role)
		c.Locals("email", claims.Email)
		return c.Next()
	}
}

// RequireAdmin gates a route on the token's role claim. Must run after
// RequireUser.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if role, _ := c.Locals("role").(string); role != domain.RoleAdmin {
			applog.Security(c, "access.denied.admin", nil)
			return fail(c, fiber.StatusForbidden, "Admin access required")
		}
		return c.Next()
	}
}

func callerID(c *fiber.Ctx) string {
	id, _ := c.Locals("userID").(string)
	return id
}

func callerEmail(c *fiber.Ctx) string {
	email, _ := c.Locals("email").(string)
	return email
}

func callerIsAdmin(c *fiber.Ctx) bool {
	role, _ := c.Locals("role").(string)
	return role == domain.RoleAdmin
}
