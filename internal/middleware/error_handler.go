package middleware

import (
	"errors"

	"foodgram/internal/logging"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders errors that escaped the handlers as {"detail": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	} else {
		logging.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	}

	return c.Status(code).JSON(fiber.Map{
		"detail": message,
	})
}
