package middleware

import (
	"context"
	"errors"
	"strings"

	"foodgram/internal/logging"
	"foodgram/internal/services"

	"github.com/gofiber/fiber/v2"
)

const (
	userIDKey   = "user_id"
	usernameKey = "username"
)

// TokenValidator checks a bearer token and resolves it to a live user.
// *services.AuthService implements it.
type TokenValidator interface {
	Authenticate(ctx context.Context, token string) (*services.TokenClaims, error)
}

// AuthRequired is a Fiber middleware to check for a valid JWT token.
// Both "Token <jwt>" and "Bearer <jwt>" headers are accepted.
func AuthRequired(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Authentication credentials were not provided.",
			})
		}

		tokenString, ok := parseAuthorization(authHeader)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Authorization header format must be 'Token <token>' or 'Bearer <token>'",
			})
		}

		claims, err := validator.Authenticate(c.UserContext(), tokenString)
		if err != nil && !errors.Is(err, services.ErrInvalidCredentials) {
			// storage failure, not a bad token
			return err
		}
		if err != nil {
			logging.Debug().Err(err).Str("path", c.Path()).Msg("JWT validation failed")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Invalid or expired token",
			})
		}

		setClaims(c, claims)
		return c.Next()
	}
}

// OptionalAuth identifies the user when a valid token is present and lets
// the request through as anonymous otherwise.
func OptionalAuth(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenString, ok := parseAuthorization(c.Get(fiber.HeaderAuthorization)); ok {
			if claims, err := validator.Authenticate(c.UserContext(), tokenString); err == nil {
				setClaims(c, claims)
			} else {
				logging.Debug().Err(err).Str("path", c.Path()).Msg("ignoring invalid token on public route")
			}
		}
		return c.Next()
	}
}

// CurrentUserID returns the authenticated user's id, or 0 for anonymous
// requests.
func CurrentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(userIDKey).(uint)
	return id
}

// CurrentUsername returns the authenticated user's name, or "".
func CurrentUsername(c *fiber.Ctx) string {
	name, _ := c.Locals(usernameKey).(string)
	return name
}

func setClaims(c *fiber.Ctx, claims *services.TokenClaims) {
	c.Locals(userIDKey, claims.UserID)
	c.Locals(usernameKey, claims.Username)
}

func parseAuthorization(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	if !strings.EqualFold(scheme, "Token") && !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	return token, true
}
