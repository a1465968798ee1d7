package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// LoginMessage carries the credentials a client submitted. UsernameOrEmail
// accepts either form; the resolver decides which lookup to run.
type LoginMessage struct {
	UsernameOrEmail string `json:"username" example:"pepe.rone" doc:"Username or registered email."`
	Password        string `json:"password" example:"s3cr3t" doc:"Cleartext password."`
}

func (p LoginMessage) Type() string { return "user.login" }

// LoginResult is what a successful login hands back to the transport layer.
type LoginResult struct {
	User     *User
	RoleName string
	Token    string
}

type LoginHandler struct {
	resolver *IdentityResolver
	hasher   Hasher
	tokens   TokenService
	logger   Logger
}

func NewLoginHandler(resolver *IdentityResolver, hasher Hasher, tokens TokenService, logger Logger) *LoginHandler {
	if logger == nil {
		logger = defLogger{}
	}
	return &LoginHandler{
		resolver: resolver,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
	}
}

func (h *LoginHandler) Execute(ctx context.Context, event LoginMessage) (*LoginResult, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during login",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *LoginHandler) execute(ctx context.Context, event LoginMessage) (*LoginResult, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	if event.UsernameOrEmail == "" || event.Password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := h.resolver.ResolveByUsernameOrEmail(ctx, event.UsernameOrEmail)
	if err != nil {
		return nil, err
	}

	if !user.IsEnabled() {
		h.logger.Warn("login attempt on disabled account %q", user.Username)
		return nil, ErrUserDisabled
	}

	if err := h.hasher.Compare(event.Password, user.PasswordHash); err != nil {
		return nil, err
	}

	roleName, err := h.resolver.RoleName(ctx, user)
	if err != nil {
		return nil, err
	}

	token, err := h.tokens.SignSession(user)
	if err != nil {
		return nil, err
	}

	h.logger.Info("user %q logged in", user.Username)

	return &LoginResult{
		User:     user,
		RoleName: roleName,
		Token:    token,
	}, nil
}
