package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// SignupMessage is the admin-initiated registration payload. The account and
// its profile are created together or not at all.
type SignupMessage struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	RoleID         int64  `json:"id_user_role"`
	Email          string `json:"email"`
	FullName       string `json:"nombre_completo"`
	DocumentType   string `json:"tipo_documento"`
	DocumentNumber string `json:"numero_doc"`
	Phone          string `json:"telefono"`
}

func (p SignupMessage) Type() string { return "user.signup" }

// SignupResult carries the freshly created records plus a session token for
// the new account.
type SignupResult struct {
	User    *User
	Profile *UserProfile
	Token   string
}

type SignupHandler struct {
	repo   RepositoryManager
	hasher Hasher
	tokens TokenService
	logger Logger
}

func NewSignupHandler(repo RepositoryManager, hasher Hasher, tokens TokenService, logger Logger) *SignupHandler {
	if logger == nil {
		logger = defLogger{}
	}
	return &SignupHandler{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

func (h *SignupHandler) Execute(ctx context.Context, event SignupMessage) (*SignupResult, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during signup",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *SignupHandler) execute(ctx context.Context, event SignupMessage) (*SignupResult, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	exists, err := h.repo.Roles().Exists(ctx, event.RoleID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrRoleNotFound
	}

	if taken, err := h.repo.Users().ExistsByUsername(ctx, event.Username); err != nil {
		return nil, err
	} else if taken {
		return nil, goerrors.New("El nombre de usuario ya existe", goerrors.CategoryConflict).
			WithTextCode(TextCodeDuplicateUsername)
	}

	if taken, err := h.repo.Profiles().ExistsByEmail(ctx, event.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, goerrors.New("El correo ya está registrado", goerrors.CategoryConflict).
			WithTextCode(TextCodeDuplicateEmail)
	}

	if taken, err := h.repo.Profiles().ExistsByDocument(ctx, event.DocumentNumber); err != nil {
		return nil, err
	} else if taken {
		return nil, goerrors.New("El número de documento ya está registrado", goerrors.CategoryConflict).
			WithTextCode(TextCodeDuplicateDocument)
	}

	hash, err := h.hasher.Hash(event.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Username:     event.Username,
		PasswordHash: hash,
		RoleID:       event.RoleID,
		Enabled:      1,
	}
	profile := &UserProfile{
		Email:          event.Email,
		FullName:       event.FullName,
		DocumentType:   event.DocumentType,
		DocumentNumber: event.DocumentNumber,
		Phone:          event.Phone,
	}

	err = h.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := h.repo.Users().CreateTx(ctx, tx, user); err != nil {
			return err
		}

		profile.UserID = user.ID
		if _, err := h.repo.Profiles().CreateTx(ctx, tx, profile); err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to register user")
	}

	user.Profile = profile

	token, err := h.tokens.SignSession(user)
	if err != nil {
		return nil, err
	}

	h.logger.Info("registered user %q with role %d", user.Username, user.RoleID)

	return &SignupResult{User: user, Profile: profile, Token: token}, nil
}
