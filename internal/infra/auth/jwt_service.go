// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"userhub/config"
	"userhub/internal/domain/service"
	"userhub/internal/errors"
)

// jwtService is a concrete implementation of the TokenService interface using
// HMAC-SHA256 signed JWTs. Tokens are stateless: every request is verifiable
// from the token alone, with no server-side session store.
type jwtService struct {
	key []byte           // Symmetric signing key, decoded from the base64 config value.
	ttl time.Duration    // Token time-to-live.
	now func() time.Time // Clock, injectable for expiry boundary tests.
}

// NewJWTService is the constructor for jwtService.
// The signing key comes from jwt.secret.key (base64) and the TTL from
// jwt.expiration.time (milliseconds).
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.JWT.Secret.Key == "" {
		return nil, errors.New("jwt secret key must be provided")
	}

	key, err := base64.StdEncoding.DecodeString(cfg.JWT.Secret.Key)
	if err != nil {
		return nil, errors.Wrap(err, "jwt secret key is not valid base64")
	}

	if cfg.JWT.Expiration.Time <= 0 {
		return nil, errors.New("jwt expiration time must be positive")
	}

	return &jwtService{
		key: key,
		ttl: time.Duration(cfg.JWT.Expiration.Time) * time.Millisecond,
		now: time.Now,
	}, nil
}

// tokenClaims is the on-wire claim set: registered sub/iat/exp plus the
// custom list-valued roles claim.
type tokenClaims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// Issue builds a signed token with claims {sub, roles, iat, exp}.
func (s *jwtService) Issue(subject string, roles []string) (string, error) {
	now := s.now()
	claims := &tokenClaims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return token, nil
}

// Decode parses the token and verifies signature and structure only.
// Expiry is deliberately not checked here; IsExpired is the separate
// predicate for that, so a stale-but-genuine token still decodes.
func (s *jwtService) Decode(tokenString string) (*service.Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	parsed, err := parser.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (any, error) {
		return s.key, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse token")
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok {
		return nil, errors.New("unexpected token claims type")
	}

	out := &service.Claims{
		Subject: claims.Subject,
		Roles:   claims.Roles,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}

	return out, nil
}

// IsExpired reports whether the token's expiry has passed. A token that does
// not decode, or carries no expiry, counts as expired.
func (s *jwtService) IsExpired(tokenString string) bool {
	claims, err := s.Decode(tokenString)
	if err != nil {
		return true
	}

	return !s.now().Before(claims.ExpiresAt)
}

// IsValid reports whether the token decodes, asserts the expected subject,
// and has not expired.
func (s *jwtService) IsValid(tokenString string, expectedSubject string) bool {
	claims, err := s.Decode(tokenString)
	if err != nil {
		return false
	}

	return claims.Subject == expectedSubject && s.now().Before(claims.ExpiresAt)
}

// TTL returns the configured token lifetime.
func (s *jwtService) TTL() time.Duration {
	return s.ttl
}
