// Package jwtx signs and verifies the bearer tokens issued after a
// successful login. Tokens are EdDSA (Ed25519) JWTs whose subject is
// the account's phone number.
package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the default session token lifetime. These are
// long-lived mobile session tokens, not short-lived access tokens.
const DefaultTokenTTL = 365 * 24 * time.Hour

// Claims are the token claims. Only registered claims are used; the
// subject carries the normalized phone number.
type Claims struct {
	jwt.RegisteredClaims
}

// NewClaims builds minimally-correct claims for a session token.
func NewClaims(subject, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        newJTI(),
		},
	}
}

// newJTI returns a URL-safe random identifier for the "jti" claim.
func newJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
