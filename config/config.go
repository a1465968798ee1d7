// Package config loads the runtime options from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"

	auth "github.com/descuentoclub/beneficios-api"
)

// App is the full runtime configuration. It satisfies auth.Config.
type App struct {
	HTTPAddr string
	BaseURL  string

	DBDriver string
	DBDSN    string

	SigningKey string
	SessionTTL time.Duration
	ResetTTL   time.Duration
	BcryptCost int

	// JWKSURLs switches token verification to remote JWK Sets when set.
	// Issuance still uses the local signing key.
	JWKSURLs []string

	MailFrom     string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
}

var _ auth.Config = (*App)(nil)

// New reads the environment. Only the signing secret is mandatory; everything
// else has a development-friendly default.
func New() (*App, error) {
	app := &App{
		HTTPAddr:     getenv("HTTP_ADDR", ":3000"),
		BaseURL:      getenv("APP_BASE_URL", "http://localhost:3000"),
		DBDriver:     getenv("DB_DRIVER", "sqlite"),
		DBDSN:        getenv("DB_DSN", "file::memory:?cache=shared"),
		SigningKey:   os.Getenv("AUTH_TOKEN_SECRET"),
		SessionTTL:   getenvDuration("AUTH_SESSION_TTL", 0),
		ResetTTL:     getenvDuration("AUTH_RESET_TTL", 15*time.Minute),
		BcryptCost:   getenvInt("AUTH_BCRYPT_COST", auth.DefaultHashCost),
		JWKSURLs:     getenvList("AUTH_JWKS_URLS"),
		MailFrom:     os.Getenv("MAIL_FROM"),
		SMTPHost:     os.Getenv("MAIL_SMTP_HOST"),
		SMTPPort:     getenvInt("MAIL_SMTP_PORT", 587),
		SMTPUser:     os.Getenv("MAIL_SMTP_USER"),
		SMTPPassword: os.Getenv("MAIL_SMTP_PASSWORD"),
	}

	if app.SigningKey == "" {
		return nil, goerrors.New("AUTH_TOKEN_SECRET must be set", goerrors.CategoryBadInput)
	}

	return app, nil
}

func (a *App) GetSigningKey() string        { return a.SigningKey }
func (a *App) GetSessionTTL() time.Duration { return a.SessionTTL }
func (a *App) GetResetTTL() time.Duration   { return a.ResetTTL }
func (a *App) GetBcryptCost() int           { return a.BcryptCost }

// HasSMTP reports whether a real mail relay is configured.
func (a *App) HasSMTP() bool {
	return a.SMTPHost != ""
}

func getenvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}

	var out []string
	for _, entry := range strings.Split(v, ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			out = append(out, entry)
		}
	}
	return out
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		if secs, serr := strconv.Atoi(v); serr == nil {
			return time.Duration(secs) * time.Second
		}
		return def
	}
	return d
}
