package middleware_test

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strconv"
	"testing"

	"foodgram/internal/middleware"
	"foodgram/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticValidator map[string]uint

func (v staticValidator) Authenticate(_ context.Context, token string) (*services.TokenClaims, error) {
	if token == "unreachable" {
		return nil, errors.New("connection refused")
	}
	id, ok := v[token]
	if !ok {
		return nil, services.ErrInvalidCredentials
	}
	return &services.TokenClaims{UserID: id, Username: "user" + strconv.Itoa(int(id))}, nil
}

func newTestApp() *fiber.App {
	validator := staticValidator{"good": 7}
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	app.Use(middleware.RequestLogger())

	whoami := func(c *fiber.Ctx) error {
		return c.SendString(strconv.Itoa(int(middleware.CurrentUserID(c))) + ":" + middleware.CurrentUsername(c))
	}
	app.Get("/private", middleware.AuthRequired(validator), whoami)
	app.Get("/public", middleware.OptionalAuth(validator), whoami)
	app.Get("/teapot", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })
	return app
}

func do(t *testing.T, app *fiber.App, path, authorization string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set(fiber.HeaderAuthorization, authorization)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestAuthRequired(t *testing.T) {
	app := newTestApp()

	cases := []struct {
		header string
		status int
	}{
		{"", fiber.StatusUnauthorized},
		{"good", fiber.StatusUnauthorized},
		{"Basic good", fiber.StatusUnauthorized},
		{"Token bad", fiber.StatusUnauthorized},
		{"Token good", fiber.StatusOK},
		{"Bearer good", fiber.StatusOK},
		{"bearer good", fiber.StatusOK},
		{"Token unreachable", fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.header, func(t *testing.T) {
			status, body := do(t, app, "/private", tc.header)
			assert.Equal(t, tc.status, status)
			if status == fiber.StatusOK {
				assert.Equal(t, "7:user7", body)
			} else {
				assert.Contains(t, body, `"detail"`)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	app := newTestApp()

	status, body := do(t, app, "/public", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "0:", body)

	status, body = do(t, app, "/public", "Token bad")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "0:", body)

	status, body = do(t, app, "/public", "Token good")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "7:user7", body)
}

func TestErrorHandler(t *testing.T) {
	app := newTestApp()

	status, body := do(t, app, "/teapot", "")
	assert.Equal(t, fiber.StatusTeapot, status)
	assert.JSONEq(t, `{"detail":"short and stout"}`, body)

	status, _ = do(t, app, "/missing", "")
	assert.Equal(t, fiber.StatusNotFound, status)
}
