package jwtware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/descuentoclub/beneficios-api"
)

type testConfig struct {
	signingKey string
	sessionTTL time.Duration
}

func (c testConfig) GetSigningKey() string        { return c.signingKey }
func (c testConfig) GetSessionTTL() time.Duration { return c.sessionTTL }
func (c testConfig) GetResetTTL() time.Duration   { return 15 * time.Minute }
func (c testConfig) GetBcryptCost() int           { return 4 }

type rolesStub struct {
	byID map[int64]*auth.Role
}

func (r *rolesStub) GetByID(_ context.Context, id int64) (*auth.Role, error) {
	role, ok := r.byID[id]
	if !ok {
		return nil, auth.ErrRoleNotFound
	}
	return role, nil
}

func (r *rolesStub) GetByName(_ context.Context, name string) (*auth.Role, error) {
	for _, role := range r.byID {
		if role.Name == name {
			return role, nil
		}
	}
	return nil, auth.ErrRoleNotFound
}

func (r *rolesStub) Create(_ context.Context, record *auth.Role) (*auth.Role, error) {
	r.byID[record.ID] = record
	return record, nil
}

func (r *rolesStub) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := r.byID[id]
	return ok, nil
}

func newTokens(t *testing.T) auth.TokenService {
	t.Helper()
	return auth.NewTokenService(testConfig{signingKey: "test-secret"}, nil)
}

func sessionToken(t *testing.T, tokens auth.TokenService, user *auth.User) string {
	t.Helper()
	token, err := tokens.SignSession(user)
	require.NoError(t, err)
	return token
}

func protectedApp(validator TokenValidator) *fiber.App {
	app := fiber.New()
	app.Get("/protected", New(Config{TokenValidator: validator}), func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromCtx(c, "")
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{"user": claims.Username})
	})
	return app
}

func TestJWTMiddleware_MissingToken(t *testing.T) {
	app := protectedApp(newTokens(t))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body auth.ErrorBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Error)
	assert.Equal(t, "Token no proporcionado", body.Message)
}

func TestJWTMiddleware_InvalidToken(t *testing.T) {
	app := protectedApp(newTokens(t))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(auth.HeaderToken, "not.a.token")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	tokens := newTokens(t)
	app := protectedApp(tokens)

	token := sessionToken(t, tokens, &auth.User{ID: 1, Username: "alice", RoleID: 1})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(auth.HeaderToken, token)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "alice")
}

func TestJWTMiddleware_Filter(t *testing.T) {
	tokens := newTokens(t)

	app := fiber.New()
	app.Get("/maybe", New(Config{
		TokenValidator: tokens,
		Filter: func(c *fiber.Ctx) bool {
			return c.Query("skip") == "1"
		},
	}), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/maybe?skip=1", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/maybe", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func adminApp(tokens auth.TokenService, roles auth.Roles) *fiber.App {
	app := fiber.New()
	app.Post("/admin",
		New(Config{TokenValidator: tokens}),
		RequireAdmin(AdminConfig{Roles: roles}),
		func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		})
	return app
}

func TestRequireAdmin(t *testing.T) {
	tokens := newTokens(t)
	roles := &rolesStub{byID: map[int64]*auth.Role{
		1: {ID: 1, Name: auth.RoleAdminName},
		2: {ID: 2, Name: auth.RoleUserName},
	}}
	app := adminApp(tokens, roles)

	tests := []struct {
		name   string
		roleID int64
		want   int
	}{
		{"admin role passes", 1, http.StatusOK},
		{"plain user rejected", 2, http.StatusUnauthorized},
		{"unknown role rejected", 9, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := sessionToken(t, tokens, &auth.User{ID: 1, Username: "alice", RoleID: tt.roleID})

			req := httptest.NewRequest(http.MethodPost, "/admin", nil)
			req.Header.Set(auth.HeaderToken, token)
			resp, err := app.Test(req)
			require.NoError(t, err)

			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestRequireAdmin_NoToken(t *testing.T) {
	tokens := newTokens(t)
	roles := &rolesStub{byID: map[int64]*auth.Role{}}
	app := adminApp(tokens, roles)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestValidateResetToken(t *testing.T) {
	tokens := newTokens(t)
	user := &auth.User{ID: 7, Username: "alice", RoleID: 2}

	app := fiber.New()
	app.Post("/reset",
		ValidateResetToken(ResetConfig{TokenValidator: tokens}),
		func(c *fiber.Ctx) error {
			claims, ok := c.Locals(ResetContextKey).(*auth.TokenClaims)
			if !ok {
				return c.SendStatus(fiber.StatusInternalServerError)
			}
			return c.JSON(fiber.Map{"user": claims.Username})
		})

	t.Run("reset token passes", func(t *testing.T) {
		token, err := tokens.SignReset(user)
		require.NoError(t, err)

		body, _ := json.Marshal(map[string]string{"token": token})
		req := httptest.NewRequest(http.MethodPost, "/reset", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("session token rejected", func(t *testing.T) {
		token, err := tokens.SignSession(user)
		require.NoError(t, err)

		body, _ := json.Marshal(map[string]string{"token": token})
		req := httptest.NewRequest(http.MethodPost, "/reset", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("missing token is a payload error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/reset", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body auth.ErrorBody
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Token no proporcionado", body.Message)
	})

	t.Run("unparsable body is a payload error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/reset", bytes.NewReader([]byte(`not json`)))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetExtractors(t *testing.T) {
	app := fiber.New()
	app.Get("/echo", func(c *fiber.Ctx) error {
		raw := ExtractRawToken(c, GetExtractors("header:x-access-token,query:token", ""))
		return c.SendString(raw)
	})

	t.Run("header source", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/echo", nil)
		req.Header.Set(auth.HeaderToken, "abc")
		resp, err := app.Test(req)
		require.NoError(t, err)

		raw, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "abc", string(raw))
	})

	t.Run("query fallback", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/echo?token=xyz", nil))
		require.NoError(t, err)

		raw, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "xyz", string(raw))
	})
}
