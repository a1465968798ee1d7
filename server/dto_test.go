package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validSignup() SignupRequest {
	return SignupRequest{
		Username:       "bob",
		Password:       "Secret123",
		RoleID:         2,
		Email:          "bob@example.com",
		FullName:       "Bob Builder",
		DocumentType:   "CC",
		DocumentNumber: "1020304050",
	}
}

func TestSignupRequest_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validSignup().Validate())
	})

	t.Run("missing username", func(t *testing.T) {
		r := validSignup()
		r.Username = ""
		assert.Error(t, r.Validate())
	})

	t.Run("bad email", func(t *testing.T) {
		r := validSignup()
		r.Email = "not-an-email"
		assert.Error(t, r.Validate())
	})

	t.Run("missing role", func(t *testing.T) {
		r := validSignup()
		r.RoleID = 0
		assert.Error(t, r.Validate())
	})

	t.Run("short password", func(t *testing.T) {
		r := validSignup()
		r.Password = "abc"
		assert.Error(t, r.Validate())
	})

	t.Run("optional phone accepted when valid", func(t *testing.T) {
		r := validSignup()
		r.Phone = "+506 2222 0000"
		assert.NoError(t, r.Validate())
	})

	t.Run("national number accepted", func(t *testing.T) {
		r := validSignup()
		r.Phone = "88887777"
		assert.NoError(t, r.Validate())
	})

	t.Run("garbage phone rejected", func(t *testing.T) {
		r := validSignup()
		r.Phone = "123"
		assert.Error(t, r.Validate())
	})
}

func TestResetPasswordRequest_Identity(t *testing.T) {
	assert.Equal(t, "a", ResetPasswordRequest{UsernameOrEmail: "a", Username: "b", Email: "c"}.Identity())
	assert.Equal(t, "b", ResetPasswordRequest{Username: "b", Email: "c"}.Identity())
	assert.Equal(t, "c", ResetPasswordRequest{Email: "c"}.Identity())
	assert.Equal(t, "", ResetPasswordRequest{}.Identity())
}

func TestResetPasswordRequest_Validate(t *testing.T) {
	valid := ResetPasswordRequest{Token: "tok", Username: "alice", NewPassword: "Fresh456"}
	assert.NoError(t, valid.Validate())

	missingIdentity := ResetPasswordRequest{Token: "tok", NewPassword: "Fresh456"}
	assert.Error(t, missingIdentity.Validate())

	missingToken := ResetPasswordRequest{Username: "alice", NewPassword: "Fresh456"}
	assert.Error(t, missingToken.Validate())
}

func TestForgotPasswordRequest_Validate(t *testing.T) {
	assert.NoError(t, ForgotPasswordRequest{Username: "alice"}.Validate())
	assert.Error(t, ForgotPasswordRequest{}.Validate())
}
