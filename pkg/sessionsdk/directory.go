package sessionsdk

import "context"

// Directory abstracts the identity directory the session layer talks to.
// Implementations own whatever token persistence they need; GetSession and
// SignOut operate on the implementation's current token, mirroring how a
// hosted auth client keeps its session ambient.
//
// Two implementations exist: HTTPDirectory speaks to a live directory
// service, LocalDirectory serves an in-process demo user set. They are
// interchangeable; pick one at construction time.
type Directory interface {
	// SignInWithPassword exchanges credentials for a session. Returns
	// ErrInvalidCredentials when the directory rejects them and
	// ErrDirectoryUnavailable when it cannot be reached.
	SignInWithPassword(ctx context.Context, email, password string) (DirectorySession, error)

	// GetSession reports the currently active session, refreshing the token
	// when the directory chooses to. Returns ErrNoSession when there is none.
	GetSession(ctx context.Context) (DirectorySession, error)

	// PortalFor reads the raw portal assignment of the current session's
	// identity. Returns ErrNoPortal when no assignment exists.
	PortalFor(ctx context.Context) (string, error)

	// SignOut invalidates the current session. Never fails just because no
	// session exists.
	SignOut(ctx context.Context) error

	// Events opens the directory's session change stream. The returned stop
	// function releases the stream; the channel closes when the stream ends.
	Events(ctx context.Context) (<-chan Event, func(), error)
}
