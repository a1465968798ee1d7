package jwtware

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	auth "github.com/descuentoclub/beneficios-api"
)

// ResetContextKey is where ValidateResetToken stores the verified claims.
const ResetContextKey = "reset_claims"

// ResetConfig drives the reset-token gate.
type ResetConfig struct {
	TokenValidator TokenValidator
	ErrorHandler   func(*fiber.Ctx, error) error
}

type resetTokenBody struct {
	Token string `json:"token"`
}

// ValidateResetToken returns a handler that admits only requests carrying a
// valid password-reset token in the JSON body. The body stays readable for
// downstream handlers.
func ValidateResetToken(config ResetConfig) fiber.Handler {
	if config.TokenValidator == nil {
		panic("AUTH: reset middleware configuration: TokenValidator is required.")
	}

	if config.ErrorHandler == nil {
		config.ErrorHandler = func(c *fiber.Ctx, err error) error {
			body := auth.NewErrorBody(err)
			return c.Status(body.StatusCode).JSON(body)
		}
	}

	return func(c *fiber.Ctx) error {
		// an absent token is a payload defect (400), not a failed credential
		var body resetTokenBody
		if err := json.Unmarshal(c.Body(), &body); err != nil || body.Token == "" {
			return config.ErrorHandler(c, auth.ErrResetTokenRequired)
		}

		claims, err := config.TokenValidator.Validate(body.Token)
		if err != nil {
			return config.ErrorHandler(c, err)
		}

		if !claims.IsReset() {
			return config.ErrorHandler(c, auth.ErrResetPurposeMismatch)
		}

		c.Locals(ResetContextKey, claims)

		return c.Next()
	}
}
