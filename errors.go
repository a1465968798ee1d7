package auth

import (
	"database/sql"
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeInvalidCreds        = "INVALID_CREDENTIALS"
	TextCodeUserDisabled        = "USER_DISABLED"
	TextCodeTokenExpired        = "TOKEN_EXPIRED"
	TextCodeTokenMalformed      = "TOKEN_MALFORMED"
	TextCodeTokenMissing        = "TOKEN_MISSING"
	TextCodeSigningKeyMissing   = "SIGNING_KEY_MISSING"
	TextCodeResetPurpose        = "RESET_PURPOSE_MISMATCH"
	TextCodeResetSubject        = "RESET_SUBJECT_MISMATCH"
	TextCodeRecordNotFound      = "RECORD_NOT_FOUND"
	TextCodeAdminRequired       = "ADMIN_REQUIRED"
	TextCodeMissingCredentials  = "MISSING_CREDENTIALS"
	TextCodeDuplicateUsername   = "DUPLICATE_USERNAME"
	TextCodeDuplicateEmail      = "DUPLICATE_EMAIL"
	TextCodeDuplicateDocument   = "DUPLICATE_DOCUMENT"
	TextCodeUnknownRole         = "UNKNOWN_ROLE"
	TextCodeUniqueViolation     = "UNIQUE_VIOLATION"
	TextCodeForeignKeyViolation = "FOREIGN_KEY_VIOLATION"
)

// ErrIdentityNotFound is returned when neither username nor email resolves to
// a user. The message matches the one clients already display for bad logins.
var ErrIdentityNotFound = errors.New("Usuario o contraseña inválida", errors.CategoryNotFound).
	WithTextCode(TextCodeRecordNotFound)

// ErrMismatchedHashAndPassword is the generic credential failure; it carries
// the same user-facing message as ErrIdentityNotFound on purpose.
var ErrMismatchedHashAndPassword = errors.New("Usuario o contraseña inválida", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds)

// ErrMissingCredentials rejects login payloads with blank fields.
var ErrMissingCredentials = errors.New("Usuario y contraseña son obligatorios", errors.CategoryAuthz).
	WithTextCode(TextCodeMissingCredentials)

// ErrUserDisabled blocks login for accounts with enabled = 0.
var ErrUserDisabled = errors.New("Usuario deshabilitado", errors.CategoryAuth).
	WithTextCode(TextCodeUserDisabled)

// ErrRoleNotFound is returned when a user's role id has no matching role row.
var ErrRoleNotFound = errors.New("Rol de usuario no encontrado", errors.CategoryNotFound).
	WithTextCode(TextCodeUnknownRole)

// ErrUserNotFound is the recovery-flow variant of an unknown identity.
var ErrUserNotFound = errors.New("Usuario no encontrado", errors.CategoryNotFound).
	WithTextCode(TextCodeRecordNotFound)

// ErrTokenExpired covers expired session and reset tokens alike.
var ErrTokenExpired = errors.New("Token inválido o expirado", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenMalformed covers tampered or otherwise unparsable tokens.
var ErrTokenMalformed = errors.New("Token inválido o expirado", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed)

// ErrTokenMissing is returned when the token header is absent.
var ErrTokenMissing = errors.New("Token no proporcionado", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMissing)

// ErrResetTokenRequired rejects reset requests whose body carries no token.
// Unlike a missing session header this is a payload problem, not an auth one.
var ErrResetTokenRequired = errors.New("Token no proporcionado", errors.CategoryValidation).
	WithTextCode(TextCodeTokenMissing)

// ErrSigningKeyMissing surfaces a missing AUTH_TOKEN_SECRET at the moment a
// token has to be signed or validated.
var ErrSigningKeyMissing = errors.New("clave de firma no configurada", errors.CategoryInternal).
	WithTextCode(TextCodeSigningKeyMissing)

// ErrResetPurposeMismatch rejects tokens whose purpose claim is not
// "password_reset" where a reset token is expected.
var ErrResetPurposeMismatch = errors.New("Token de reseteo inválido", errors.CategoryAuth).
	WithTextCode(TextCodeResetPurpose)

// ErrResetSubjectMismatch rejects a reset token issued for a different user
// than the one whose password is being changed.
var ErrResetSubjectMismatch = errors.New("El token no corresponde al usuario indicado", errors.CategoryAuthz).
	WithTextCode(TextCodeResetSubject)

// ErrAdminRequired gates admin-only routes.
var ErrAdminRequired = errors.New("Requiere rol de administrador", errors.CategoryAuth).
	WithTextCode(TextCodeAdminRequired)

// ErrNoEmptyPassword rejects empty plaintext passwords before hashing.
var ErrNoEmptyPassword = errors.New("la contraseña no puede estar vacía", errors.CategoryValidation)

// IsRecordNotFound reports whether err represents a missing row, either as a
// rich not-found error or as the driver-level sql.ErrNoRows.
func IsRecordNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.IsNotFound(err) || errors.Is(err, sql.ErrNoRows)
}

// IsUniqueViolation detects unique-index violations across the sqlite and
// postgres drivers. Duplicate signups racing past the existence checks land
// here and must be reported as conflicts.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}

// IsForeignKeyViolation detects FK violations across the sqlite and postgres
// drivers.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "FOREIGN KEY constraint failed") ||
		strings.Contains(msg, "violates foreign key constraint")
}

func newRecordNotFound(metadata map[string]any) *errors.Error {
	return errors.New("registro no encontrado", errors.CategoryNotFound).
		WithTextCode(TextCodeRecordNotFound).
		WithMetadata(metadata)
}
