package jwtware

import (
	"log"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"

	auth "github.com/descuentoclub/beneficios-api"
)

// SigningKey holds a verification key plus the algorithm it expects.
type SigningKey struct {
	JWTAlg string
	Key    any
}

// KeyfuncValidator verifies tokens against static keys or remote JWK Sets
// instead of the shared HS256 secret. Useful when token issuance moves to an
// external identity provider but the claims shape stays ours.
type KeyfuncValidator struct {
	keyFunc jwt.Keyfunc
}

var _ TokenValidator = (*KeyfuncValidator)(nil)

// NewKeyfuncValidator builds a validator from keyed signing keys and JWK Set
// URLs. At least one of the two must be given.
func NewKeyfuncValidator(signingKeys map[string]SigningKey, jwkSetURLs []string) (*KeyfuncValidator, error) {
	var givenKeys map[string]keyfunc.GivenKey
	if len(signingKeys) > 0 {
		givenKeys = make(map[string]keyfunc.GivenKey, len(signingKeys))
		for kid, key := range signingKeys {
			givenKeys[kid] = keyfunc.NewGivenCustom(key.Key, keyfunc.GivenKeyOptions{
				Algorithm: key.JWTAlg,
			})
		}
	}

	if len(jwkSetURLs) == 0 {
		if len(givenKeys) == 0 {
			return nil, goerrors.New("keyfunc validator needs signing keys or JWK Set URLs", goerrors.CategoryBadInput)
		}
		return &KeyfuncValidator{keyFunc: keyfunc.NewGiven(givenKeys).Keyfunc}, nil
	}

	opts := keyfunc.Options{
		GivenKeys: givenKeys,
		RefreshErrorHandler: func(err error) {
			log.Printf("failed to do a background refresh of JWT set: %s", err)
		},
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  time.Minute * 5,
		RefreshTimeout:    time.Second * 10,
		RefreshUnknownKID: true,
	}

	m := make(map[string]keyfunc.Options, len(jwkSetURLs))
	for _, url := range jwkSetURLs {
		m[url] = opts
	}

	multi, err := keyfunc.GetMultiple(m, keyfunc.MultipleOptions{
		KeySelector: keyfunc.KeySelectorFirst,
	})
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to get JWK Set URLs")
	}

	return &KeyfuncValidator{keyFunc: multi.Keyfunc}, nil
}

// Validate parses and verifies a token with the configured key source.
func (v *KeyfuncValidator) Validate(tokenString string) (*auth.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &auth.TokenClaims{}, v.keyFunc)
	if err != nil {
		if goerrors.Is(err, jwt.ErrTokenExpired) {
			return nil, auth.ErrTokenExpired
		}
		return nil, goerrors.Wrap(err, auth.ErrTokenMalformed.Category, auth.ErrTokenMalformed.Message).
			WithTextCode(auth.ErrTokenMalformed.TextCode)
	}

	claims, ok := token.Claims.(*auth.TokenClaims)
	if !ok || !token.Valid {
		return nil, auth.ErrTokenMalformed
	}

	return claims, nil
}
