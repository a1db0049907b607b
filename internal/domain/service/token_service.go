package service

import "time"

// Claims is the validated content of a token: who it was issued to, which
// roles it asserts, and its lifetime window.
type Claims struct {
	Subject   string    // The user's email.
	Roles     []string  // Role names carried by the token, as issued.
	IssuedAt  time.Time // When the token was minted.
	ExpiresAt time.Time // When the token stops being valid.
}

// TokenService defines the interface for issuing and validating signed,
// self-contained bearer tokens. Implementations are pure functions of their
// inputs plus an immutable signing key and are safe for concurrent use.
type TokenService interface {
	// Issue builds a signed token asserting the subject and roles,
	// expiring after the configured TTL.
	Issue(subject string, roles []string) (string, error)

	// Decode parses the token and verifies its signature and structure.
	// It does NOT check expiry; that is a separate predicate so callers
	// can distinguish "forged" from "merely stale".
	Decode(token string) (*Claims, error)

	// IsExpired reports whether the token's expiry has passed. A token is
	// expired at the exact expiry instant, not one step later.
	IsExpired(token string) bool

	// IsValid reports whether the token decodes, asserts the expected
	// subject, and has not expired.
	IsValid(token string, expectedSubject string) bool

	// TTL returns the configured token lifetime.
	TTL() time.Duration
}
