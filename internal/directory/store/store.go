package store

import (
	"context"
	"errors"
	"time"

	"github.com/synkcrm/sessiond/internal/directory/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	Profiles() Profiles
	Sessions() Sessions

	ApplyMigrations() error

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It exposes the same repos plus Commit/Rollback.
type Tx interface {
	Users() Users
	Profiles() Profiles
	Sessions() Sessions

	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during password sign-in. Emails are matched
	// case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateLastLogin stamps last_login_at and bumps updated_at.
	UpdateLastLogin(ctx context.Context, userID string) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// DeleteUser cascades to profiles and sessions (per schema).
	DeleteUser(ctx context.Context, userID string) error

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}

type Profiles interface {
	// GetPortal returns the raw portal value for a user. ErrNotFound when no
	// profile row exists.
	GetPortal(ctx context.Context, userID string) (string, error)

	// UpsertPortal creates or replaces the portal assignment for a user.
	UpsertPortal(ctx context.Context, userID, portal string) error

	// DeleteProfile removes the assignment.
	DeleteProfile(ctx context.Context, userID string) error
}

type Sessions interface {
	// CreateSession stores a new session row.
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSessionByID returns the session row for revocation checks.
	GetSessionByID(ctx context.Context, id string) (domain.Session, error)

	// RevokeSession stamps revoked_at. Revoking an already-revoked session
	// is a no-op.
	RevokeSession(ctx context.Context, id string) error

	// RevokeAllUserSessions bulk revocation for a user (e.g. password reset).
	RevokeAllUserSessions(ctx context.Context, userID string) error

	// ExtendSession pushes expires_at forward when a token is re-minted.
	ExtendSession(ctx context.Context, id string, expiresAt time.Time) error

	// DeleteExpiredSessions is housekeeping.
	DeleteExpiredSessions(ctx context.Context) error
}
