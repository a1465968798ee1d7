package auth

import (
	"github.com/uptrace/bun"
)

// User is the credential-bearing account record. Raw passwords never reach
// this struct; callers hash before assigning PasswordHash.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID           int64  `bun:"id,pk,autoincrement" json:"id"`
	Username     string `bun:"username,notnull,unique" json:"username"`
	PasswordHash string `bun:"password_hash,notnull" json:"-"`
	RoleID       int64  `bun:"id_user_role,notnull" json:"id_user_role"`
	Enabled      int    `bun:"enabled,notnull,default:1" json:"enabled"`

	Profile *UserProfile `bun:"rel:has-one,join:id=user_id" json:"profile,omitempty"`
	Role    *Role        `bun:"rel:belongs-to,join:id_user_role=id" json:"role,omitempty"`
}

// IsEnabled reports whether the account may log in.
func (u *User) IsEnabled() bool {
	return u != nil && u.Enabled != 0
}

// Email returns the profile email, or empty when no profile is loaded.
func (u *User) Email() string {
	if u == nil || u.Profile == nil {
		return ""
	}
	return u.Profile.Email
}

// UserProfile carries the personal data attached one-to-one to a User. The
// email column is the lookup key for email-based logins.
type UserProfile struct {
	bun.BaseModel `bun:"table:user_profile,alias:prf"`

	ID             int64  `bun:"id,pk,autoincrement" json:"id"`
	UserID         int64  `bun:"user_id,notnull,unique" json:"user_id"`
	Email          string `bun:"email,notnull,unique" json:"email"`
	FullName       string `bun:"full_name,notnull" json:"nombre_completo"`
	DocumentType   string `bun:"document_type,notnull" json:"tipo_documento"`
	DocumentNumber string `bun:"document_number,notnull,unique" json:"numero_doc"`
	Phone          string `bun:"phone" json:"telefono,omitempty"`
}

// Role is a row in user_roles. Users reference roles by id and may not exist
// without one.
type Role struct {
	bun.BaseModel `bun:"table:user_roles,alias:rol"`

	ID   int64  `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:"role,notnull,unique" json:"role"`
}

// IsAdmin reports whether the role grants admin access.
func (r *Role) IsAdmin() bool {
	return r != nil && r.Name == RoleAdminName
}
