package middleware

import (
	"strings"

	"storerate/internal/authz"
	"storerate/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

const sessionKey = "session"

// AuthRequired is a Fiber middleware that verifies the Bearer token and
// stashes the resulting session in the request context. The token is the
// sole credential: the user row is not consulted again here.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header format must be 'Bearer <token>'",
			})
		}

		sess, err := authService.ValidateToken(parts[1])
		if err != nil {
			log.Debug().Err(err).Msg("rejected token")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(sessionKey, sess)
		return c.Next()
	}
}

// SessionFromCtx returns the session stored by AuthRequired, or nil on an
// unprotected route.
func SessionFromCtx(c *fiber.Ctx) *authz.Session {
	sess, _ := c.Locals(sessionKey).(*authz.Session)
	return sess
}
