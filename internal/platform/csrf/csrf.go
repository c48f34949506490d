// Package csrf issues and verifies anti-forgery tokens for mutating console
// calls. Tokens are short-lived HS256 JWTs bound to the caller's session
// cookie, so a token stolen from one browser session is useless in another.
package csrf

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"

	dErrors "atrium/pkg/domain-errors"
)

// Claims carries the session binding alongside the registered claims.
type Claims struct {
	SessionHash string `json:"sth"`
	jwt.RegisteredClaims
}

// Service signs and verifies CSRF tokens.
type Service struct {
	signingKey []byte
	ttl        time.Duration
}

// NewService creates a CSRF token service. A zero ttl defaults to one hour.
func NewService(signingKey string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Service{
		signingKey: []byte(signingKey),
		ttl:        ttl,
	}
}

// Issue returns a signed token bound to the given session cookie value.
func (s *Service) Issue(sessionToken string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		SessionHash: hashSessionToken(sessionToken),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "atrium",
		},
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign csrf token")
	}
	return signed, nil
}

// Verify checks signature, expiry, and that the token was issued for the
// same session cookie the request carries.
func (s *Service) Verify(tokenString, sessionToken string) error {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, dErrors.New(dErrors.CodeForbidden, "unexpected signing algorithm")
		}
		return s.signingKey, nil
	})
	if err != nil || !token.Valid {
		return dErrors.New(dErrors.CodeForbidden, "invalid csrf token")
	}

	expected := hashSessionToken(sessionToken)
	if subtle.ConstantTimeCompare([]byte(claims.SessionHash), []byte(expected)) != 1 {
		return dErrors.New(dErrors.CodeForbidden, "csrf token bound to a different session")
	}
	return nil
}

// hashSessionToken derives the session binding. Only a hash is embedded so a
// leaked CSRF token never exposes the session cookie itself.
func hashSessionToken(sessionToken string) string {
	sum := sha256.Sum256([]byte(sessionToken))
	return hex.EncodeToString(sum[:])
}
