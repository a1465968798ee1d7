package auth

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Profiles is the persistence surface for the personal data attached to each
// account. Email lookups live here because email is a profile column, not a
// user column.
type Profiles interface {
	GetByEmail(ctx context.Context, email string) (*UserProfile, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*UserProfile, error)
	GetByUserID(ctx context.Context, userID int64) (*UserProfile, error)
	Create(ctx context.Context, record *UserProfile) (*UserProfile, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *UserProfile) (*UserProfile, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByDocument(ctx context.Context, documentNumber string) (bool, error)
}

type profiles struct {
	db *bun.DB
}

var _ Profiles = (*profiles)(nil)

func NewProfilesRepository(db *bun.DB) Profiles {
	return &profiles{db: db}
}

func (a *profiles) GetByEmail(ctx context.Context, email string) (*UserProfile, error) {
	return a.GetByEmailTx(ctx, a.db, email)
}

func (a *profiles) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*UserProfile, error) {
	record := &UserProfile{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", email).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if IsRecordNotFound(err) {
			return nil, newRecordNotFound(map[string]any{"email": email})
		}
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to select profile by email")
	}

	return record, nil
}

func (a *profiles) GetByUserID(ctx context.Context, userID int64) (*UserProfile, error) {
	record := &UserProfile{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.user_id = ?", userID).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if IsRecordNotFound(err) {
			return nil, newRecordNotFound(map[string]any{"user_id": userID})
		}
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to select profile by user id")
	}

	return record, nil
}

func (a *profiles) Create(ctx context.Context, record *UserProfile) (*UserProfile, error) {
	return a.CreateTx(ctx, a.db, record)
}

func (a *profiles) CreateTx(ctx context.Context, tx bun.IDB, record *UserProfile) (*UserProfile, error) {
	if record == nil {
		return nil, errors.New("profile record must not be nil", errors.CategoryInternal)
	}

	if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
		if IsUniqueViolation(err) {
			return nil, errors.Wrap(err, errors.CategoryConflict, "El correo o documento ya está registrado").
				WithTextCode(TextCodeDuplicateEmail)
		}
		if IsForeignKeyViolation(err) {
			return nil, errors.Wrap(err, errors.CategoryBadInput, "Usuario no encontrado").
				WithTextCode(TextCodeRecordNotFound)
		}
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to insert profile")
	}

	return record, nil
}

func (a *profiles) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	exists, err := a.db.NewSelect().
		Model((*UserProfile)(nil)).
		Where("?TableAlias.email = ?", email).
		Exists(ctx)

	if err != nil {
		return false, errors.Wrap(err, errors.CategoryOperation, "failed to check email existence")
	}

	return exists, nil
}

func (a *profiles) ExistsByDocument(ctx context.Context, documentNumber string) (bool, error) {
	exists, err := a.db.NewSelect().
		Model((*UserProfile)(nil)).
		Where("?TableAlias.document_number = ?", documentNumber).
		Exists(ctx)

	if err != nil {
		return false, errors.Wrap(err, errors.CategoryOperation, "failed to check document existence")
	}

	return exists, nil
}
