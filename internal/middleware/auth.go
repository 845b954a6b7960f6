package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/laundrylink/internal/models"
	"github.com/example/laundrylink/internal/services"
)

const userContextKey = "currentUser"

// AuthMiddleware resolves the opaque bearer token to its account and
// loads the account into the request context.
func AuthMiddleware(flow *services.AuthFlow) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid authorization header")
		}

		user, err := flow.ResolveToken(parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(userContextKey, user)
		return c.Next()
	}
}

// GetCurrentUser extracts the authenticated account from context.
func GetCurrentUser(c *fiber.Ctx) (*models.User, bool) {
	value := c.Locals(userContextKey)
	if value == nil {
		return nil, false
	}

	if user, ok := value.(*models.User); ok {
		return user, true
	}

	return nil, false
}
