package domain

import "time"

// Profile associates a user with the portal they are allowed to enter.
// The directory stores the portal value raw, whatever it is; deciding which
// values are routable is the caller's concern, not ours.
type Profile struct {
	UserID    string
	Portal    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
