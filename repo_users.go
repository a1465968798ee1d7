package auth

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Users is the persistence surface for account records. Every read loads the
// profile relation so callers always have the email at hand.
type Users interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByIDTx(ctx context.Context, tx bun.IDB, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByUsernameTx(ctx context.Context, tx bun.IDB, username string) (*User, error)
	Create(ctx context.Context, record *User) (*User, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdatePasswordTx(ctx context.Context, tx bun.IDB, id int64, passwordHash string) error
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

type users struct {
	db *bun.DB
}

var _ Users = (*users)(nil)

func NewUsersRepository(db *bun.DB) Users {
	return &users{db: db}
}

func (a *users) GetByID(ctx context.Context, id int64) (*User, error) {
	return a.GetByIDTx(ctx, a.db, id)
}

func (a *users) GetByIDTx(ctx context.Context, tx bun.IDB, id int64) (*User, error) {
	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Relation("Profile").
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if IsRecordNotFound(err) {
			return nil, newRecordNotFound(map[string]any{"id": id})
		}
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to select user by id")
	}

	return record, nil
}

func (a *users) GetByUsername(ctx context.Context, username string) (*User, error) {
	return a.GetByUsernameTx(ctx, a.db, username)
}

func (a *users) GetByUsernameTx(ctx context.Context, tx bun.IDB, username string) (*User, error) {
	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Relation("Profile").
		Where("?TableAlias.username = ?", username).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if IsRecordNotFound(err) {
			return nil, newRecordNotFound(map[string]any{"username": username})
		}
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to select user by username")
	}

	return record, nil
}

func (a *users) Create(ctx context.Context, record *User) (*User, error) {
	return a.CreateTx(ctx, a.db, record)
}

func (a *users) CreateTx(ctx context.Context, tx bun.IDB, record *User) (*User, error) {
	if record == nil {
		return nil, errors.New("user record must not be nil", errors.CategoryInternal)
	}

	if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
		if IsUniqueViolation(err) {
			return nil, errors.Wrap(err, errors.CategoryConflict, "El nombre de usuario ya existe").
				WithTextCode(TextCodeDuplicateUsername)
		}
		if IsForeignKeyViolation(err) {
			return nil, errors.Wrap(err, errors.CategoryBadInput, "Rol de usuario no encontrado").
				WithTextCode(TextCodeUnknownRole)
		}
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to insert user")
	}

	return record, nil
}

func (a *users) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return a.UpdatePasswordTx(ctx, a.db, id, passwordHash)
}

func (a *users) UpdatePasswordTx(ctx context.Context, tx bun.IDB, id int64, passwordHash string) error {
	res, err := tx.NewUpdate().
		Model((*User)(nil)).
		Set("password_hash = ?", passwordHash).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)

	if err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to update password hash")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "failed to read affected rows")
	}

	if affected == 0 {
		return newRecordNotFound(map[string]any{"id": id})
	}

	return nil
}

func (a *users) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	exists, err := a.db.NewSelect().
		Model((*User)(nil)).
		Where("?TableAlias.username = ?", username).
		Exists(ctx)

	if err != nil {
		return false, errors.Wrap(err, errors.CategoryOperation, "failed to check username existence")
	}

	return exists, nil
}
