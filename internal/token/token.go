// Package token reads display claims out of an access credential without
// verifying it. The client holds no verification keys; nothing read here
// may feed an authorization decision.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Expiry returns the exp claim of the credential, when present and readable.
func Expiry(raw string) (time.Time, bool) {
	claims := parse(raw)
	if claims == nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Subject returns the sub claim of the credential, when present.
func Subject(raw string) (string, bool) {
	claims := parse(raw)
	if claims == nil {
		return "", false
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", false
	}
	return sub, true
}

// ExpiresWithin reports whether the credential expires inside d. Credentials
// without a readable expiry report false: absent knowledge is not expiry.
func ExpiresWithin(raw string, d time.Duration) bool {
	exp, ok := Expiry(raw)
	if !ok {
		return false
	}
	return time.Until(exp) <= d
}

func parse(raw string) jwt.MapClaims {
	if raw == "" {
		return nil
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil
	}
	return claims
}
