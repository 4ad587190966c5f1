package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/autoshop/internal/config"
	"github.com/example/autoshop/internal/session"
	"github.com/example/autoshop/internal/utils"
)

// SessionCookie is the cookie carrying the admin session JWT.
const SessionCookie = "admin_session"

const tokenContextKey = "backendToken"
const sessionContextKey = "sessionID"

// AuthMiddleware validates the session cookie and loads the backend bearer
// token into context. The token itself is never exposed to the client.
func AuthMiddleware(cfg *config.Config, sessions *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cookie := c.Cookies(SessionCookie)
		if cookie == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
		}

		sessionID, err := utils.ParseToken(cfg.JWTSecret, cookie)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid session")
		}

		token, err := sessions.Token(sessionID)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "session expired")
		}

		c.Locals(tokenContextKey, token)
		c.Locals(sessionContextKey, sessionID)
		return c.Next()
	}
}

// GetBackendToken extracts the backend bearer token from context.
func GetBackendToken(c *fiber.Ctx) (string, bool) {
	if token, ok := c.Locals(tokenContextKey).(string); ok && token != "" {
		return token, true
	}
	return "", false
}

// GetSessionID extracts the current session id from context.
func GetSessionID(c *fiber.Ctx) (string, bool) {
	if id, ok := c.Locals(sessionContextKey).(string); ok && id != "" {
		return id, true
	}
	return "", false
}
