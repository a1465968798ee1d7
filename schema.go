package auth

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// EnsureSchema creates the auth tables when they do not exist yet. Production
// deployments manage DDL out of band; this keeps dev and test databases
// usable without extra setup.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*Role)(nil),
		(*User)(nil),
		(*UserProfile)(nil),
	}

	for _, model := range models {
		_, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			WithForeignKeys().
			Exec(ctx)
		if err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "failed to create table")
		}
	}

	return nil
}

// SeedDefaultRoles inserts ROLE_ADMIN and ROLE_USER when the catalog is
// empty. Existing rows are left untouched.
func SeedDefaultRoles(ctx context.Context, db *bun.DB) error {
	for _, name := range []string{RoleAdminName, RoleUserName} {
		exists, err := db.NewSelect().
			Model((*Role)(nil)).
			Where("?TableAlias.role = ?", name).
			Exists(ctx)
		if err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "failed to check role catalog")
		}

		if exists {
			continue
		}

		if _, err := db.NewInsert().Model(&Role{Name: name}).Exec(ctx); err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "failed to seed role")
		}
	}

	return nil
}
