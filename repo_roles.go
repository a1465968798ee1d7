package auth

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Roles is the persistence surface for the user_roles catalog.
type Roles interface {
	GetByID(ctx context.Context, id int64) (*Role, error)
	GetByName(ctx context.Context, name string) (*Role, error)
	Create(ctx context.Context, record *Role) (*Role, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type roles struct {
	db *bun.DB
}

var _ Roles = (*roles)(nil)

func NewRolesRepository(db *bun.DB) Roles {
	return &roles{db: db}
}

func (a *roles) GetByID(ctx context.Context, id int64) (*Role, error) {
	record := &Role{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if IsRecordNotFound(err) {
			return nil, ErrRoleNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to select role by id")
	}

	return record, nil
}

func (a *roles) GetByName(ctx context.Context, name string) (*Role, error) {
	record := &Role{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.role = ?", name).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if IsRecordNotFound(err) {
			return nil, ErrRoleNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to select role by name")
	}

	return record, nil
}

func (a *roles) Create(ctx context.Context, record *Role) (*Role, error) {
	if record == nil {
		return nil, errors.New("role record must not be nil", errors.CategoryInternal)
	}

	if _, err := a.db.NewInsert().Model(record).Exec(ctx); err != nil {
		if IsUniqueViolation(err) {
			return nil, errors.Wrap(err, errors.CategoryConflict, "El rol ya existe").
				WithTextCode(TextCodeUniqueViolation)
		}
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to insert role")
	}

	return record, nil
}

func (a *roles) Exists(ctx context.Context, id int64) (bool, error) {
	exists, err := a.db.NewSelect().
		Model((*Role)(nil)).
		Where("?TableAlias.id = ?", id).
		Exists(ctx)

	if err != nil {
		return false, errors.Wrap(err, errors.CategoryOperation, "failed to check role existence")
	}

	return exists, nil
}
