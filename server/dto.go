package server

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"
)

// LoginRequest payload. Blank fields are not validated here on purpose: the
// login use case has its own rule for missing credentials and its own status
// code for them.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse confirms the login and echoes the role id. The token itself
// travels in the response header.
type LoginResponse struct {
	Login    bool  `json:"login"`
	UserRole int64 `json:"user_role"`
}

// SignupRequest is the admin-facing registration payload.
type SignupRequest struct {
	Username       string `json:"username"`
	Password       string `json:"password"`
	RoleID         int64  `json:"id_user_role"`
	Email          string `json:"email"`
	FullName       string `json:"nombre_completo"`
	DocumentType   string `json:"tipo_documento"`
	DocumentNumber string `json:"numero_doc"`
	Phone          string `json:"telefono"`
}

// Validate will run validation rules
func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(3, 64)),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 72)),
		validation.Field(&r.RoleID, validation.Required),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.FullName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.DocumentType, validation.Required),
		validation.Field(&r.DocumentNumber, validation.Required, validation.Length(4, 20)),
		validation.Field(&r.Phone, validation.By(validPhoneNumber)),
	)
}

// ForgotPasswordRequest starts the recovery flow. Username only, never email.
type ForgotPasswordRequest struct {
	Username string `json:"username"`
}

// Validate will run validation rules
func (r ForgotPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
	)
}

// ForgotPasswordResponse confirms the request was accepted. The token never
// appears here; it only travels inside the emailed link.
type ForgotPasswordResponse struct {
	Requested bool   `json:"requested"`
	Message   string `json:"message"`
}

// ResetPasswordRequest completes the recovery flow. The identity field comes
// in under any of three names depending on the client generation.
type ResetPasswordRequest struct {
	Token           string `json:"token"`
	UsernameOrEmail string `json:"usernameOrEmail"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	NewPassword     string `json:"new_password"`
}

// Identity coalesces the three accepted identity field names.
func (r ResetPasswordRequest) Identity() string {
	if r.UsernameOrEmail != "" {
		return r.UsernameOrEmail
	}
	if r.Username != "" {
		return r.Username
	}
	return r.Email
}

// Validate will run validation rules
func (r ResetPasswordRequest) Validate() error {
	if r.Identity() == "" {
		return errors.New("usernameOrEmail: no puede estar en blanco.")
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Token, validation.Required),
		validation.Field(&r.NewPassword, validation.Required, validation.Length(6, 72)),
	)
}

// ResetPasswordResponse confirms the change.
type ResetPasswordResponse struct {
	Message string `json:"message"`
}

// VerifyTokenResponse reports on the token that got the request this far.
type VerifyTokenResponse struct {
	ValidToken bool   `json:"validToken"`
	User       string `json:"user"`
}

func validPhoneNumber(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}

	num, err := phonenumbers.Parse(s, "CR")
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return errors.New("debe ser un número de teléfono válido")
	}

	return nil
}
