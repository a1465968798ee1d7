package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenPurposeReset is the purpose discriminator embedded in reset tokens.
// Session tokens carry no purpose claim at all.
const TokenPurposeReset = "password_reset"

// TokenClaims is the payload for both token kinds the platform signs.
type TokenClaims struct {
	jwt.RegisteredClaims

	IDUser     int64  `json:"id_user"`
	Username   string `json:"username"`
	IDUserRole int64  `json:"id_user_role,omitempty"`
	Purpose    string `json:"purpose,omitempty"`
}

// IsReset reports whether the claims belong to a password-reset token.
func (c *TokenClaims) IsReset() bool {
	return c != nil && c.Purpose == TokenPurposeReset
}

// ValidResetFor reports whether the claims authorize a password change for
// the given user id. A session token, or a reset token minted for a different
// user, never does.
func (c *TokenClaims) ValidResetFor(userID int64) bool {
	return c.IsReset() && c.IDUser != 0 && c.IDUser == userID
}
