package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"

	auth "github.com/descuentoclub/beneficios-api"
	"github.com/descuentoclub/beneficios-api/middleware/jwtware"
)

// AuthController exposes the auth use cases over HTTP.
type AuthController struct {
	Debug  bool
	Logger auth.Logger

	Login  *auth.LoginHandler
	Signup *auth.SignupHandler
	Forgot *auth.InitializePasswordResetHandler
	Reset  *auth.FinalizePasswordResetHandler
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: auth.NewLogger("HTTP"),
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Login == nil || c.Signup == nil || c.Forgot == nil || c.Reset == nil {
		panic("Missing use case handlers in auth controller...")
	}

	return c
}

func WithLogger(logger auth.Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

func WithDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func WithHandlers(
	login *auth.LoginHandler,
	signup *auth.SignupHandler,
	forgot *auth.InitializePasswordResetHandler,
	reset *auth.FinalizePasswordResetHandler,
) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Login = login
		c.Signup = signup
		c.Forgot = forgot
		c.Reset = reset
		return c
	}
}

func (a *AuthController) LoginPost(ctx *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := ctx.BodyParser(payload); err != nil {
		return RespondValidation(ctx, a.Logger, err)
	}

	if a.Debug {
		fmt.Println("======= AUTH LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=========================")
	}

	result, err := a.Login.Execute(ctx.UserContext(), auth.LoginMessage{
		UsernameOrEmail: payload.Username,
		Password:        payload.Password,
	})
	if err != nil {
		return RespondError(ctx, a.Logger, err)
	}

	ctx.Set(auth.HeaderToken, result.Token)

	return ctx.JSON(LoginResponse{
		Login:    true,
		UserRole: result.User.RoleID,
	})
}

func (a *AuthController) SignupPost(ctx *fiber.Ctx) error {
	payload := new(SignupRequest)

	if err := ctx.BodyParser(payload); err != nil {
		return RespondValidation(ctx, a.Logger, err)
	}

	if err := payload.Validate(); err != nil {
		return RespondValidation(ctx, a.Logger, err)
	}

	result, err := a.Signup.Execute(ctx.UserContext(), auth.SignupMessage{
		Username:       payload.Username,
		Password:       payload.Password,
		RoleID:         payload.RoleID,
		Email:          payload.Email,
		FullName:       payload.FullName,
		DocumentType:   payload.DocumentType,
		DocumentNumber: payload.DocumentNumber,
		Phone:          payload.Phone,
	})
	if err != nil {
		return RespondError(ctx, a.Logger, err)
	}

	ctx.Set(auth.HeaderToken, result.Token)

	return ctx.Status(fiber.StatusCreated).JSON(result.User)
}

func (a *AuthController) ForgotPasswordPost(ctx *fiber.Ctx) error {
	payload := new(ForgotPasswordRequest)

	if err := ctx.BodyParser(payload); err != nil {
		return RespondValidation(ctx, a.Logger, err)
	}

	if err := payload.Validate(); err != nil {
		return RespondValidation(ctx, a.Logger, err)
	}

	result, err := a.Forgot.Execute(ctx.UserContext(), auth.InitializePasswordResetMessage{
		Username: payload.Username,
	})
	if err != nil {
		return RespondError(ctx, a.Logger, err)
	}

	return ctx.JSON(ForgotPasswordResponse{
		Requested: result.Requested,
		Message:   "Se ha enviado un correo con las instrucciones de recuperación",
	})
}

func (a *AuthController) ResetPasswordPost(ctx *fiber.Ctx) error {
	payload := new(ResetPasswordRequest)

	if err := ctx.BodyParser(payload); err != nil {
		return RespondValidation(ctx, a.Logger, err)
	}

	if err := payload.Validate(); err != nil {
		return RespondValidation(ctx, a.Logger, err)
	}

	_, err := a.Reset.Execute(ctx.UserContext(), auth.FinalizePasswordResetMessage{
		Token:           payload.Token,
		UsernameOrEmail: payload.Identity(),
		NewPassword:     payload.NewPassword,
	})
	if err != nil {
		return RespondError(ctx, a.Logger, err)
	}

	return ctx.JSON(ResetPasswordResponse{
		Message: "Contraseña restablecida exitosamente",
	})
}

func (a *AuthController) VerifyTokenGet(ctx *fiber.Ctx) error {
	claims, ok := jwtware.ClaimsFromCtx(ctx, "")
	if !ok {
		return RespondError(ctx, a.Logger, auth.ErrTokenMissing)
	}

	return ctx.JSON(VerifyTokenResponse{
		ValidToken: true,
		User:       claims.Username,
	})
}

func (a *AuthController) HealthGet(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"status": "ok"})
}
