package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/synkcrm/sessiond/pkg/idx"
)

// DefaultSessionTTL is the default lifetime for a directory session token.
// Tokens are re-minted on session reads once they get close to expiry, so a
// short lifetime here does not log anyone out.
const DefaultSessionTTL = 15 * time.Minute

// SessionClaims are the claims carried by a directory session token.
type SessionClaims struct {
	jwt.RegisteredClaims

	// SID is the server-side session row id, used for revocation checks.
	SID string `json:"sid,omitempty"`

	// Email of the authenticated user.
	Email string `json:"email,omitempty"`

	// Name is the display name for the user.
	Name string `json:"name,omitempty"`
}

// NewSessionClaims builds minimally-correct claims for a session token.
func NewSessionClaims(
	subject, sid, email, name, issuer string,
	ttl time.Duration,
	now time.Time,
) SessionClaims {
	return SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        idx.New().String(),
		},
		SID:   sid,
		Email: email,
		Name:  name,
	}
}

// TimeToExpiry reports how long the token remains valid from now.
func (c SessionClaims) TimeToExpiry(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Time.Sub(now)
}
