package jwtware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/descuentoclub/beneficios-api"
)

func signWithKid(t *testing.T, kid string, key []byte, claims *auth.TokenClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["kid"] = kid

	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestKeyfuncValidator_GivenKey(t *testing.T) {
	key := []byte("jwks-shared-secret")

	validator, err := NewKeyfuncValidator(map[string]SigningKey{
		"primary": {JWTAlg: "HS256", Key: key},
	}, nil)
	require.NoError(t, err)

	signed := signWithKid(t, "primary", key, &auth.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		IDUser:     42,
		Username:   "alice",
		IDUserRole: 1,
	})

	claims, err := validator.Validate(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.IDUser)
	assert.Equal(t, "alice", claims.Username)
}

func TestKeyfuncValidator_WrongKeyRejected(t *testing.T) {
	validator, err := NewKeyfuncValidator(map[string]SigningKey{
		"primary": {JWTAlg: "HS256", Key: []byte("jwks-shared-secret")},
	}, nil)
	require.NoError(t, err)

	signed := signWithKid(t, "primary", []byte("some-other-secret"), &auth.TokenClaims{
		IDUser:   42,
		Username: "alice",
	})

	_, err = validator.Validate(signed)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, auth.HTTPStatus(err))
}

func TestKeyfuncValidator_ExpiredRejected(t *testing.T) {
	key := []byte("jwks-shared-secret")

	validator, err := NewKeyfuncValidator(map[string]SigningKey{
		"primary": {JWTAlg: "HS256", Key: key},
	}, nil)
	require.NoError(t, err)

	signed := signWithKid(t, "primary", key, &auth.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
		IDUser:   42,
		Username: "alice",
	})

	_, err = validator.Validate(signed)
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestKeyfuncValidator_RequiresKeySource(t *testing.T) {
	_, err := NewKeyfuncValidator(nil, nil)
	assert.Error(t, err)
}

func TestKeyfuncValidator_BehindMiddleware(t *testing.T) {
	key := []byte("jwks-shared-secret")

	validator, err := NewKeyfuncValidator(map[string]SigningKey{
		"primary": {JWTAlg: "HS256", Key: key},
	}, nil)
	require.NoError(t, err)

	app := protectedApp(validator)

	signed := signWithKid(t, "primary", key, &auth.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		IDUser:   42,
		Username: "alice",
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(auth.HeaderToken, signed)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
