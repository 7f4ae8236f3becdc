package controller

import (
	"errors"
	"net/http"

	"eduexpress-backend/internal/apperror"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler renders errors returned by handlers as error envelopes.
// Internal failures are logged and their detail withheld from the client.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		env := Envelope{Success: false, Message: err.Error()}

		var fe *fiber.Error
		var ve *apperror.ValidationError
		status := apperror.StatusCode(err)
		switch {
		case errors.As(err, &fe):
			status = fe.Code
		case errors.As(err, &ve):
			env.Details = ve.Fields
		}

		if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err))
			env.Message = "internal server error"
		}
		env.Error = http.StatusText(status)
		return c.Status(status).JSON(env)
	}
}
