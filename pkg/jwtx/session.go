package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/avalonfair/gatehouse/pkg/idx"
)

// DefaultSessionTTL is how long a freshly minted signup session remains valid.
const DefaultSessionTTL = 24 * time.Hour

var (
	ErrNoSecret     = errors.New("jwtx: signing secret not configured")
	ErrInvalidToken = errors.New("jwtx: invalid session token")
)

// SessionClaims are the registered claims carried by a signup session token.
type SessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Signer mints and verifies HS256 session tokens handed out once a signup
// attempt completes. It is deliberately minimal: downstream services own
// real session management.
type Signer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

// Mint returns a signed session token for the given user.
func (s *Signer) Mint(userID, email string) (string, error) {
	if len(s.Secret) == 0 {
		return "", ErrNoSecret
	}

	// Only an unset TTL gets the default; a negative TTL mints an already
	// expired token, which tests rely on.
	ttl := s.TTL
	if ttl == 0 {
		ttl = DefaultSessionTTL
	}

	now := time.Now()
	claims := SessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.Issuer,
			Subject:   userID,
			ID:        idx.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Verify parses a session token and returns its claims if the signature,
// issuer, and expiry all check out.
func (s *Signer) Verify(raw string) (SessionClaims, error) {
	if len(s.Secret) == 0 {
		return SessionClaims{}, ErrNoSecret
	}

	var claims SessionClaims
	token, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
			}
			return s.Secret, nil
		},
		jwt.WithIssuer(s.Issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return SessionClaims{}, ErrInvalidToken
	}

	return claims, nil
}
