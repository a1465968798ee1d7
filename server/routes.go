package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	auth "github.com/descuentoclub/beneficios-api"
	"github.com/descuentoclub/beneficios-api/middleware/jwtware"
)

// Deps is everything the HTTP layer needs wired in.
type Deps struct {
	Controller *AuthController
	Tokens     auth.TokenService
	Roles      auth.Roles

	// Validator overrides the verification path, for deployments that check
	// tokens against a JWK Set instead of the shared secret. Defaults to
	// Tokens.
	Validator jwtware.TokenValidator
}

// New assembles the fiber application. The token header must be listed in
// ExposeHeaders or browser clients cannot read it.
func New(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "beneficios-api",
		DisableStartupMessage: true,
	})

	app.Use(requestid.New())
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowHeaders:  "Origin, Content-Type, Accept, " + auth.HeaderToken,
		ExposeHeaders: auth.HeaderToken,
	}))

	validator := deps.Validator
	if validator == nil {
		validator = deps.Tokens
	}

	verifyJWT := jwtware.New(jwtware.Config{
		TokenValidator: validator,
	})

	requireAdmin := jwtware.RequireAdmin(jwtware.AdminConfig{
		Roles: deps.Roles,
	})

	validateResetToken := jwtware.ValidateResetToken(jwtware.ResetConfig{
		TokenValidator: validator,
	})

	ctrl := deps.Controller

	app.Post("/auth/login", ctrl.LoginPost)
	app.Post("/auth/signup", verifyJWT, requireAdmin, ctrl.SignupPost)
	app.Post("/auth/forgot-password", ctrl.ForgotPasswordPost)
	app.Post("/auth/reset-password", validateResetToken, ctrl.ResetPasswordPost)
	app.Get("/auth/verify-token", verifyJWT, ctrl.VerifyTokenGet)

	app.Get("/health", ctrl.HealthGet)

	return app
}
