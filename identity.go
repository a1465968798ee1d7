package auth

import (
	"context"
	"net/mail"

	"github.com/goliatone/go-errors"
)

// IdentityResolver turns the identifier a client typed into a User record.
// Identifiers that parse as an email address go through the profile table;
// anything else is treated as a username.
type IdentityResolver struct {
	repo   RepositoryManager
	logger Logger
}

func NewIdentityResolver(repo RepositoryManager, logger Logger) *IdentityResolver {
	if logger == nil {
		logger = defLogger{}
	}
	return &IdentityResolver{repo: repo, logger: logger}
}

// ResolveByUsernameOrEmail loads the user the identifier names. Unknown
// identifiers come back as ErrIdentityNotFound regardless of which branch
// failed, so callers leak nothing about which accounts exist.
func (r *IdentityResolver) ResolveByUsernameOrEmail(ctx context.Context, identifier string) (*User, error) {
	if isEmail(identifier) {
		profile, err := r.repo.Profiles().GetByEmail(ctx, identifier)
		if err != nil {
			if IsRecordNotFound(err) {
				return nil, ErrIdentityNotFound
			}
			return nil, err
		}

		user, err := r.repo.Users().GetByID(ctx, profile.UserID)
		if err != nil {
			if IsRecordNotFound(err) {
				r.logger.Warn("profile %d references missing user %d", profile.ID, profile.UserID)
				return nil, ErrIdentityNotFound
			}
			return nil, err
		}

		return user, nil
	}

	user, err := r.repo.Users().GetByUsername(ctx, identifier)
	if err != nil {
		if IsRecordNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}

	return user, nil
}

// ResolveByUsername loads a user by username only. The recovery flow keys on
// the username the client submitted, even when it looks like an email.
func (r *IdentityResolver) ResolveByUsername(ctx context.Context, username string) (*User, error) {
	user, err := r.repo.Users().GetByUsername(ctx, username)
	if err != nil {
		if IsRecordNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

// RoleName resolves the user's role through the catalog. A dangling role id
// is reported, never guessed around.
func (r *IdentityResolver) RoleName(ctx context.Context, user *User) (string, error) {
	if user == nil {
		return "", errors.New("user must not be nil", errors.CategoryInternal)
	}

	role, err := r.repo.Roles().GetByID(ctx, user.RoleID)
	if err != nil {
		return "", err
	}

	return role.Name, nil
}

func isEmail(identifier string) bool {
	_, err := mail.ParseAddress(identifier)
	return err == nil
}
