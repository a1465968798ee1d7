package server

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	auth "github.com/descuentoclub/beneficios-api"
)

// RespondError logs the failure and writes the uniform error body. Every
// failure path goes through here so nothing is silently swallowed.
func RespondError(c *fiber.Ctx, logger auth.Logger, err error) error {
	body := auth.NewErrorBody(err)

	if body.StatusCode >= http.StatusInternalServerError {
		logger.Error("%s %s failed with %d: %v", c.Method(), c.Path(), body.StatusCode, err)
	} else {
		logger.Warn("%s %s rejected with %d: %s", c.Method(), c.Path(), body.StatusCode, body.Message)
	}

	return c.Status(body.StatusCode).JSON(body)
}

// RespondValidation writes a 400 carrying the validation detail verbatim.
func RespondValidation(c *fiber.Ctx, logger auth.Logger, err error) error {
	logger.Warn("%s %s payload rejected: %s", c.Method(), c.Path(), err.Error())

	return c.Status(http.StatusBadRequest).JSON(auth.ErrorBody{
		Error:      true,
		Message:    err.Error(),
		StatusCode: http.StatusBadRequest,
	})
}
