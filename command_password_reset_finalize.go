package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// FinalizePasswordResetMessage completes the recovery flow. The identity
// field accepts a username or an email, like login; the token must have been
// minted for the account it resolves to.
type FinalizePasswordResetMessage struct {
	Token           string `json:"token"`
	UsernameOrEmail string `json:"username"`
	NewPassword     string `json:"new_password"`
}

func (p FinalizePasswordResetMessage) Type() string { return "user.password_reset_finalize" }

// FinalizePasswordResetResult reports whose password was replaced.
type FinalizePasswordResetResult struct {
	Username string
}

type FinalizePasswordResetHandler struct {
	repo     RepositoryManager
	resolver *IdentityResolver
	tokens   TokenService
	hasher   Hasher
	logger   Logger
}

func NewFinalizePasswordResetHandler(
	repo RepositoryManager,
	resolver *IdentityResolver,
	tokens TokenService,
	hasher Hasher,
	logger Logger,
) *FinalizePasswordResetHandler {
	if logger == nil {
		logger = defLogger{}
	}
	return &FinalizePasswordResetHandler{
		repo:     repo,
		resolver: resolver,
		tokens:   tokens,
		hasher:   hasher,
		logger:   logger,
	}
}

func (h *FinalizePasswordResetHandler) Execute(ctx context.Context, event FinalizePasswordResetMessage) (*FinalizePasswordResetResult, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset finalization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *FinalizePasswordResetHandler) execute(ctx context.Context, event FinalizePasswordResetMessage) (*FinalizePasswordResetResult, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	claims, err := h.tokens.Validate(event.Token)
	if err != nil {
		return nil, err
	}

	if !claims.IsReset() || claims.IDUser == 0 {
		return nil, ErrResetPurposeMismatch
	}

	user, err := h.resolver.ResolveByUsernameOrEmail(ctx, event.UsernameOrEmail)
	if err != nil {
		if goerrors.Is(err, ErrIdentityNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !claims.ValidResetFor(user.ID) {
		h.logger.Warn("reset token for user %d used against %q", claims.IDUser, user.Username)
		return nil, ErrResetSubjectMismatch
	}

	hash, err := h.hasher.Hash(event.NewPassword)
	if err != nil {
		return nil, err
	}

	if err := h.repo.Users().UpdatePassword(ctx, user.ID, hash); err != nil {
		return nil, err
	}

	h.logger.Info("password reset completed for %q", user.Username)

	return &FinalizePasswordResetResult{Username: user.Username}, nil
}
