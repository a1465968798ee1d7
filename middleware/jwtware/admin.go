package jwtware

import (
	"github.com/gofiber/fiber/v2"

	auth "github.com/descuentoclub/beneficios-api"
)

// AdminConfig drives the admin gate. Roles is required; the role the token
// names is always checked against the catalog, never trusted as-is.
type AdminConfig struct {
	Roles auth.Roles

	// ContextKey is where New() left the claims. Defaults to "user".
	ContextKey string

	ErrorHandler func(*fiber.Ctx, error) error
}

// RequireAdmin returns a handler that lets through only tokens whose role id
// resolves to the admin role. It must run after New().
func RequireAdmin(config AdminConfig) fiber.Handler {
	if config.Roles == nil {
		panic("AUTH: admin middleware configuration: Roles is required.")
	}

	if config.ContextKey == "" {
		config.ContextKey = "user"
	}

	if config.ErrorHandler == nil {
		config.ErrorHandler = func(c *fiber.Ctx, err error) error {
			body := auth.NewErrorBody(err)
			return c.Status(body.StatusCode).JSON(body)
		}
	}

	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromCtx(c, config.ContextKey)
		if !ok {
			return config.ErrorHandler(c, auth.ErrTokenMissing)
		}

		if claims.IDUserRole == 0 {
			return config.ErrorHandler(c, auth.ErrAdminRequired)
		}

		role, err := config.Roles.GetByID(c.UserContext(), claims.IDUserRole)
		if err != nil {
			if auth.IsRecordNotFound(err) {
				return config.ErrorHandler(c, auth.ErrAdminRequired)
			}
			return config.ErrorHandler(c, err)
		}

		if !role.IsAdmin() {
			return config.ErrorHandler(c, auth.ErrAdminRequired)
		}

		return c.Next()
	}
}
