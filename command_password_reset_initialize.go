package auth

import (
	"context"
	"net/url"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// InitializePasswordResetMessage starts the recovery flow for the named
// account. The lookup is by username only; an email typed here is not
// resolved through the profile table.
type InitializePasswordResetMessage struct {
	Username string `json:"username" example:"pepe.rone" doc:"Username of the account to recover."`
}

func (p InitializePasswordResetMessage) Type() string { return "user.password_reset_init" }

// InitializePasswordResetResult reports where the reset link was sent. Token
// is surfaced for tests and non-SMTP deployments; HTTP handlers must not
// echo it to clients.
type InitializePasswordResetResult struct {
	Requested bool
	Email     string
	Token     string
}

type InitializePasswordResetHandler struct {
	resolver *IdentityResolver
	tokens   TokenService
	mailer   Mailer
	baseURL  string
	logger   Logger
}

func NewInitializePasswordResetHandler(
	resolver *IdentityResolver,
	tokens TokenService,
	mailer Mailer,
	baseURL string,
	logger Logger,
) *InitializePasswordResetHandler {
	if logger == nil {
		logger = defLogger{}
	}
	return &InitializePasswordResetHandler{
		resolver: resolver,
		tokens:   tokens,
		mailer:   mailer,
		baseURL:  baseURL,
		logger:   logger,
	}
}

func (h *InitializePasswordResetHandler) Execute(ctx context.Context, event InitializePasswordResetMessage) (*InitializePasswordResetResult, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset initialization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *InitializePasswordResetHandler) execute(ctx context.Context, event InitializePasswordResetMessage) (*InitializePasswordResetResult, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user, err := h.resolver.ResolveByUsername(ctx, event.Username)
	if err != nil {
		return nil, err
	}

	email := user.Email()
	if email == "" {
		return nil, goerrors.New("la cuenta no tiene correo registrado", goerrors.CategoryInternal).
			WithMetadata(map[string]any{"username": user.Username})
	}

	token, err := h.tokens.SignReset(user)
	if err != nil {
		return nil, err
	}

	link := h.resetLink(token)
	if err := h.mailer.SendPasswordReset(ctx, email, user.Username, link); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to send password reset email")
	}

	h.logger.Info("password reset requested for %q", user.Username)

	return &InitializePasswordResetResult{
		Requested: true,
		Email:     email,
		Token:     token,
	}, nil
}

func (h *InitializePasswordResetHandler) resetLink(token string) string {
	return h.baseURL + "/reset-password?token=" + url.QueryEscape(token)
}
