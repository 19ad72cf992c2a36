package domain

import "time"

// Session is the server-side record backing a session token. The token
// itself is a signed JWT; this row exists so sign-out can revoke it before
// the token expires naturally.
type Session struct {
	ID        string
	UserID    string
	RevokedAt *time.Time
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Active reports whether the session can still be used at the given time.
func (s Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
