package domain

import "time"

type User struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	AvatarURL    string
	PasswordHash string // argon2 encoded
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName joins the name parts, falling back to the email local part.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	default:
		return u.Email
	}
}
