package utils // package utils provides helpers for token creation and hashing

import (
	"time" // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// LoginToken represents a signed JWT along with its expiry. The Token field
// contains the serialized JWT; Exp stores the UTC expiration. Tokens are
// stateless and self-expiring: there is no server-side session or revocation,
// a client simply goes back to anonymous once the token lapses.
type LoginToken struct {
	Token string
	Exp   time.Time
}

// NewLoginToken builds and signs an HS256 JWT for an authenticated user. The
// subject claim carries the username and the role claim the user's role, so
// the authorization middleware can gate routes without a database lookup.
// ttlDays controls the fixed expiry window (7 days in the default config).
func NewLoginToken(secret, username, role string, ttlDays int) (LoginToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlDays) * 24 * time.Hour)
	claims := jwt.MapClaims{
		"sub":  username,
		"role": role,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return LoginToken{}, err
	}
	return LoginToken{Token: signed, Exp: exp}, nil
}
