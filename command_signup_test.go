package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSignupMessage(roleID int64) SignupMessage {
	return SignupMessage{
		Username:       "bob",
		Password:       "Secret123",
		RoleID:         roleID,
		Email:          "bob@example.com",
		FullName:       "Bob Builder",
		DocumentType:   "CC",
		DocumentNumber: "1020304050",
	}
}

func adminRoleID(t *testing.T, repo RepositoryManager) int64 {
	t.Helper()
	role, err := repo.Roles().GetByName(context.Background(), RoleAdminName)
	require.NoError(t, err)
	return role.ID
}

func TestSignup_Success(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepositoryManager(db)
	tokens := NewTokenService(newTestConfig(), nil)

	handler := NewSignupHandler(repo, NewHasher(4), tokens, nil)

	result, err := handler.Execute(context.Background(), validSignupMessage(adminRoleID(t, repo)))
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.NotZero(t, result.User.ID)
	assert.Equal(t, "bob", result.User.Username)
	assert.NotEqual(t, "Secret123", result.User.PasswordHash)
	require.NotNil(t, result.Profile)
	assert.Equal(t, result.User.ID, result.Profile.UserID)
	assert.Equal(t, "bob@example.com", result.Profile.Email)
	require.NotEmpty(t, result.Token)

	claims, err := tokens.Validate(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.IDUser)

	// the account is immediately usable
	stored, err := repo.Users().GetByUsername(context.Background(), "bob")
	require.NoError(t, err)
	assert.True(t, stored.IsEnabled())
	require.NotNil(t, stored.Profile)
}

func TestSignup_UnknownRole(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepositoryManager(db)

	handler := NewSignupHandler(repo, NewHasher(4), NewTokenService(newTestConfig(), nil), nil)

	_, err := handler.Execute(context.Background(), validSignupMessage(999))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRoleNotFound)
}

func TestSignup_DuplicateUsername(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepositoryManager(db)
	seedUser(t, repo, "bob", "Other123", RoleUserName, 1)

	handler := NewSignupHandler(repo, NewHasher(4), NewTokenService(newTestConfig(), nil), nil)

	msg := validSignupMessage(adminRoleID(t, repo))
	msg.Email = "otherbob@example.com"
	msg.DocumentNumber = "999999"

	_, err := handler.Execute(context.Background(), msg)
	require.Error(t, err)
	assert.Equal(t, 409, HTTPStatus(err))
}

func TestSignup_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepositoryManager(db)
	seedUser(t, repo, "bob", "Other123", RoleUserName, 1)

	handler := NewSignupHandler(repo, NewHasher(4), NewTokenService(newTestConfig(), nil), nil)

	msg := validSignupMessage(adminRoleID(t, repo))
	msg.Username = "robert"
	msg.DocumentNumber = "999999"
	msg.Email = "bob@example.com"

	_, err := handler.Execute(context.Background(), msg)
	require.Error(t, err)
	assert.Equal(t, 409, HTTPStatus(err))
}

func TestSignup_DuplicateDocument(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepositoryManager(db)
	seedUser(t, repo, "bob", "Other123", RoleUserName, 1)

	handler := NewSignupHandler(repo, NewHasher(4), NewTokenService(newTestConfig(), nil), nil)

	msg := validSignupMessage(adminRoleID(t, repo))
	msg.Username = "robert"
	msg.Email = "robert@example.com"
	msg.DocumentNumber = "doc-bob"

	_, err := handler.Execute(context.Background(), msg)
	require.Error(t, err)
	assert.Equal(t, 409, HTTPStatus(err))
}

func TestSignup_EmptyPassword(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRepositoryManager(db)

	handler := NewSignupHandler(repo, NewHasher(4), NewTokenService(newTestConfig(), nil), nil)

	msg := validSignupMessage(adminRoleID(t, repo))
	msg.Password = ""

	_, err := handler.Execute(context.Background(), msg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoEmptyPassword)
}
