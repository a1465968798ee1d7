package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// HSTokenService implements TokenService with HS256 and a single shared
// secret. Tokens carry no server-side state; expiry is the only invalidation
// mechanism.
type HSTokenService struct {
	signingKey []byte
	sessionTTL time.Duration
	resetTTL   time.Duration
	logger     Logger
}

var _ TokenService = (*HSTokenService)(nil)

// NewTokenService creates a TokenService from the environment-backed config.
func NewTokenService(cfg Config, logger Logger) *HSTokenService {
	if logger == nil {
		logger = defLogger{}
	}

	resetTTL := cfg.GetResetTTL()
	if resetTTL <= 0 {
		resetTTL = 15 * time.Minute
	}

	return &HSTokenService{
		signingKey: []byte(cfg.GetSigningKey()),
		sessionTTL: cfg.GetSessionTTL(),
		resetTTL:   resetTTL,
		logger:     logger,
	}
}

// SignSession issues a session token for the authenticated user. The exp
// claim is only set when a session TTL is configured; an unconfigured TTL
// yields a token bounded by nothing but the secret.
func (ts *HSTokenService) SignSession(user *User) (string, error) {
	if user == nil {
		return "", errors.New("user must not be nil", errors.CategoryInternal)
	}

	now := time.Now()
	claims := &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(now),
		},
		IDUser:     user.ID,
		Username:   user.Username,
		IDUserRole: user.RoleID,
	}

	if ts.sessionTTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ts.sessionTTL))
	}

	return ts.signClaims(claims)
}

// SignReset issues a short-lived token whose only power is changing the
// password of the user it names.
func (ts *HSTokenService) SignReset(user *User) (string, error) {
	if user == nil {
		return "", errors.New("user must not be nil", errors.CategoryInternal)
	}

	now := time.Now()
	claims := &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.resetTTL)),
		},
		IDUser:   user.ID,
		Username: user.Username,
		Purpose:  TokenPurposeReset,
	}

	return ts.signClaims(claims)
}

func (ts *HSTokenService) signClaims(claims *TokenClaims) (string, error) {
	if len(ts.signingKey) == 0 {
		return "", ErrSigningKeyMissing
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signed, nil
}

// Validate parses and verifies a token string. Malformed, tampered, and
// expired tokens all come back as auth errors; only a missing signing key is
// an internal one.
func (ts *HSTokenService) Validate(tokenString string) (*TokenClaims, error) {
	if len(ts.signingKey) == 0 {
		return nil, ErrSigningKeyMissing
	}

	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("token validate encountered unexpected signing method %v", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		ts.logger.Error("token validate could not decode claims")
		return nil, ErrTokenMalformed
	}

	return claims, nil
}
