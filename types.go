package auth

import (
	"context"
	"fmt"
	"time"
)

// HeaderToken is the custom header that carries the bearer token on requests
// and returns freshly issued tokens on responses. Cross-origin clients need it
// listed in the CORS exposed headers to read it.
const HeaderToken = "x-access-token"

// RoleAdminName is the role name that grants access to admin-only routes.
const RoleAdminName = "ROLE_ADMIN"

// RoleUserName is the default non-privileged role name.
const RoleUserName = "ROLE_USER"

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds the options the auth core reads from the environment.
type Config interface {
	GetSigningKey() string
	GetSessionTTL() time.Duration
	GetResetTTL() time.Duration
	GetBcryptCost() int
}

// TokenService signs and validates the two token kinds the platform issues:
// session tokens and single-purpose password-reset tokens.
type TokenService interface {
	SignSession(user *User) (string, error)
	SignReset(user *User) (string, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// Hasher hashes and verifies credentials.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(password, hash string) error
}

// Mailer delivers the password-reset link to the user's registered address.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, username, resetLink string) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

// NewLogger returns a Logger that prefixes every line with the given name.
func NewLogger(name string) Logger {
	return namedLogger{name: name}
}

type namedLogger struct {
	name string
}

func (l namedLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] "+l.name+" "+newline(format), args...)
}

func (l namedLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] "+l.name+" "+newline(format), args...)
}

func (l namedLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] "+l.name+" "+newline(format), args...)
}

func (l namedLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] "+l.name+" "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
