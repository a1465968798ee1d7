// Package auth implements the authentication and credential-recovery core of
// the beneficios platform API: login, signup, forgot/reset password, token
// issuing and validation, and the repositories they persist through.
package auth
