package jwtware

import (
	"github.com/gofiber/fiber/v2"

	auth "github.com/descuentoclub/beneficios-api"
)

var defaultTokenLookup = "header:" + auth.HeaderToken

// TokenValidator validates a raw token string into structured claims. It
// mirrors the TokenService.Validate method from the auth package.
type TokenValidator interface {
	Validate(tokenString string) (*auth.TokenClaims, error)
}

type Config struct {
	// Filter skips the middleware when it returns true.
	Filter func(*fiber.Ctx) bool

	SuccessHandler fiber.Handler
	ErrorHandler   func(*fiber.Ctx, error) error

	// TokenValidator is required.
	TokenValidator TokenValidator

	// ContextKey is the Locals key claims are stored under. Defaults to "user".
	ContextKey string

	// TokenLookup is a comma-separated list of "<source>:<name>" entries,
	// tried in order. Supported sources: header, query, cookie.
	TokenLookup string

	// AuthScheme is stripped from header values when present. Empty by
	// default: the x-access-token header carries the raw token.
	AuthScheme string
}

// New returns a handler that rejects requests without a valid session token.
// Verified claims end up in Locals under ContextKey and in the request's
// user context.
func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		raw := ExtractRawToken(c, cfg.getExtractors())
		if raw == "" {
			return cfg.ErrorHandler(c, auth.ErrTokenMissing)
		}

		claims, err := cfg.TokenValidator.Validate(raw)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		c.Locals(cfg.ContextKey, claims)
		c.SetUserContext(auth.WithClaimsContext(c.UserContext(), claims))

		return cfg.SuccessHandler(c)
	}
}

func configDefault(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.TokenValidator == nil {
		panic("AUTH: JWT middleware configuration: TokenValidator is required.")
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
			body := auth.NewErrorBody(err)
			return c.Status(body.StatusCode).JSON(body)
		}
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = defaultTokenLookup
	}

	return cfg
}

func (cfg *Config) getExtractors() []Extractor {
	return GetExtractors(cfg.TokenLookup, cfg.AuthScheme)
}

// ClaimsFromCtx returns the claims a previous New() handler stored. The
// second return is false on routes that never went through the middleware.
func ClaimsFromCtx(c *fiber.Ctx, key string) (*auth.TokenClaims, bool) {
	if key == "" {
		key = "user"
	}
	claims, ok := c.Locals(key).(*auth.TokenClaims)
	return claims, ok
}
