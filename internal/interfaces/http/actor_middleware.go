package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Gokulkannan3/stock-manager/pkg/jwt"
)

const actorKey = "actor"

// ActorMiddleware resolves the acting staff member from an optional Bearer
// token and stores the name in request locals. Requests without a token, or
// with no secret configured, proceed with an empty actor; every use case takes
// the actor as an explicit parameter, so nothing downstream reads ambient
// auth state.
func ActorMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return c.Next()
		}
		header := c.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Next()
		}
		actor, err := jwt.Parse(secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			// Bad tokens are treated as anonymous, not rejected; the actor is
			// audit metadata, not an access gate.
			return c.Next()
		}
		c.Locals(actorKey, actor)
		return c.Next()
	}
}

// GetActor returns the actor resolved by the middleware, or "".
func GetActor(c *fiber.Ctx) string {
	if v, ok := c.Locals(actorKey).(string); ok {
		return v
	}
	return ""
}
