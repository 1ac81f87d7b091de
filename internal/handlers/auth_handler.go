package handlers

import (
	"strings"

	"foodgram/internal/logging"
	"foodgram/internal/middleware"
	"foodgram/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for token authentication.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes registers the authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth/token")
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/logout", middleware.AuthRequired(h.authService), h.HandleLogout)
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin checks the credentials and issues a token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		logging.Debug().Err(err).Msg("error parsing login request body")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "Invalid request body",
			"error":  err.Error(),
		})
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "Email and password are required",
		})
	}

	token, err := h.authService.LoginUser(c.UserContext(), req.Email, req.Password)
	if err != nil {
		logging.Info().Str("email", req.Email).Msg("login failed")
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"auth_token": token,
	})
}

// HandleLogout acknowledges a logout. Tokens are stateless JWTs, so the
// client simply drops its copy.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	logging.Debug().Uint("user_id", middleware.CurrentUserID(c)).Msg("logout")
	return c.SendStatus(fiber.StatusNoContent)
}
