package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const claimsLocalKey = "authClaims"

// RequireAuth verifies the Bearer token and stores its claims in the
// request locals for downstream handlers.
func RequireAuth(tokens *TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		claims, err := tokens.VerifyToken(parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(claimsLocalKey, claims)
		return c.Next()
	}
}

// RequireRole allows the request through only when the verified token
// carries one of the given roles. It must run after RequireAuth.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := ClaimsFromContext(c)
		if claims == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}

		for _, role := range roles {
			if claims.Role == role {
				return c.Next()
			}
		}

		return fiber.NewError(fiber.StatusForbidden, "insufficient permissions")
	}
}

// ClaimsFromContext returns the verified claims stored by RequireAuth,
// or nil when the request was not authenticated.
func ClaimsFromContext(c *fiber.Ctx) *Claims {
	claims, _ := c.Locals(claimsLocalKey).(*Claims)
	return claims
}
