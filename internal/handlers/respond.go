package handlers

import (
	"errors"
	"strconv"

	"foodgram/internal/logging"
	"foodgram/internal/services"

	"github.com/gofiber/fiber/v2"
)

// respondError maps a service error to its status code and renders it as
// {"detail": ..., "errors": {...}}. Unknown errors become a 500 without
// internal details.
func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		logging.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
		return c.Status(status).JSON(fiber.Map{
			"detail": "Internal server error",
		})
	}

	body := fiber.Map{"detail": err.Error()}
	var svcErr *services.Error
	if errors.As(err, &svcErr) && len(svcErr.Fields) > 0 {
		body["errors"] = svcErr.Fields
	}
	return c.Status(status).JSON(body)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrDuplicateMembership),
		errors.Is(err, services.ErrNotMember),
		errors.Is(err, services.ErrAlreadySubscribed),
		errors.Is(err, services.ErrNotSubscribed),
		errors.Is(err, services.ErrSelfSubscription),
		errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrConflict):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// parseBody decodes the JSON body into out. On failure it has already
// written a 400 response and ok is false.
func parseBody(c *fiber.Ctx, out interface{}) (ok bool, err error) {
	if parseErr := c.BodyParser(out); parseErr != nil {
		logging.Debug().Err(parseErr).Str("path", c.Path()).Msg("error parsing request body")
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"detail": "Invalid request body",
			"error":  parseErr.Error(),
		})
	}
	return true, nil
}

// idParam reads a positive numeric route parameter. On failure it has
// already written a 404 response and ok is false.
func idParam(c *fiber.Ctx, name string) (id uint, ok bool, err error) {
	raw, parseErr := strconv.ParseUint(c.Params(name), 10, 64)
	if parseErr != nil || raw == 0 {
		return 0, false, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"detail": "Not found.",
		})
	}
	return uint(raw), true, nil
}
