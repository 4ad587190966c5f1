package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/example/autoshop/internal/backend"
	"github.com/example/autoshop/internal/config"
	"github.com/example/autoshop/internal/middleware"
	"github.com/example/autoshop/internal/session"
	"github.com/example/autoshop/internal/utils"
)

// AuthHandler proxies admin credentials to the backend and keeps the bearer
// token server-side behind a session cookie.
type AuthHandler struct {
	cfg      *config.Config
	client   *backend.Client
	sessions *session.Manager
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(cfg *config.Config, client *backend.Client, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{cfg: cfg, client: client, sessions: sessions}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login forwards the credentials, stores the returned token in a session, and
// sets an HTTP-only cookie wrapping the session id. The token itself never
// reaches the client.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email and password are required")
	}

	token, err := h.client.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return backendError(err)
	}

	sessionID, err := h.sessions.Create(token, h.cfg.TokenExpires)
	if err != nil {
		return err
	}

	signed, err := utils.GenerateToken(h.cfg.JWTSecret, sessionID, h.cfg.TokenExpires)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    signed,
		Expires:  time.Now().Add(h.cfg.TokenExpires),
		HTTPOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: "Lax",
	})

	return c.JSON(fiber.Map{"success": true})
}

// Logout revokes the session and clears the cookie. The backend logout is
// best-effort.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if token, ok := middleware.GetBackendToken(c); ok {
		if err := h.client.Logout(c.UserContext(), token); err != nil {
			log.Printf("backend logout failed: %v", err)
		}
	}
	if sessionID, ok := middleware.GetSessionID(c); ok {
		h.sessions.Revoke(sessionID)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: "Lax",
	})

	return c.JSON(fiber.Map{"success": true})
}
