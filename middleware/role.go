package middleware

import (
	"lms/models"

	"github.com/gofiber/fiber/v2"
)

// RequireRole returns a middleware that only lets listed roles through.
// It relies on JWTMiddleware having stored the parsed role in locals.
func RequireRole(allowed ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(models.Role)
		if !ok {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		}

		for _, r := range allowed {
			if role == r {
				return c.Next()
			}
		}

		return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}
}
