package middleware

import (
	"errors"
	"strconv"
	"time"

	"foodgram/internal/logging"
	"foodgram/internal/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// RequestLogger logs every request and records its count and latency.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := time.Since(start)

		// the error handler runs after the middleware chain, so the
		// response does not carry the final status yet
		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		route := c.Route().Path
		metrics.HTTPRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Method(), route).Observe(duration.Seconds())

		var event *zerolog.Event
		switch {
		case status >= 500:
			event = logging.Error().Err(err)
		case status >= 400:
			event = logging.Warn()
		default:
			event = logging.Info()
		}
		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("route", route).
			Int("status", status).
			Dur("duration", duration).
			Str("ip", c.IP()).
			Uint("user_id", CurrentUserID(c)).
			Msg("request")

		return err
	}
}
