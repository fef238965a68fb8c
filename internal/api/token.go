package api

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// minTokenLength rejects obviously truncated tokens before any parsing.
const minTokenLength = 60

// TokenStore persists the bearer token between sessions. Implementations
// are best-effort: errors degrade the client to always-exchange.
type TokenStore interface {
	Token() (string, error)
	SetToken(token string) error
	ClearToken() error
}

// likelyJWT is the structural sanity check applied to every token
// source: minimum length, three non-empty dot-separated segments, and
// an unverified parse of the header/claims segments. Signature
// verification is the server's job; this only filters out garbage so a
// malformed stored token is purged instead of sent.
func likelyJWT(token string) bool {
	if len(token) < minTokenLength {
		return false
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	_, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	return err == nil
}
