package sessionsdk

import "time"

// ErrorResponse is the JSON error body returned by the directory.
type ErrorResponse struct {
	// Error is the machine-readable code (e.g. "invalid_credentials")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// UserPayload is the directory's wire representation of a user.
type UserPayload struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name,omitempty"`
	LastName  string     `json:"last_name,omitempty"`
	AvatarURL string     `json:"avatar_url,omitempty"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// SessionResponse is returned by both the sign-in and session endpoints.
// The session endpoint may carry a re-minted token, so callers must always
// adopt the returned token rather than keep the one they sent.
type SessionResponse struct {
	// SessionToken is the signed session token
	SessionToken string `json:"session_token"`

	// TokenType is always "Bearer"
	TokenType string `json:"token_type"`

	// ExpiresIn is the token lifetime in seconds
	ExpiresIn int `json:"expires_in"`

	// User is the authenticated directory user
	User UserPayload `json:"user"`
}

// PortalResponse is returned by the portal lookup endpoint. The value is the
// raw profile field; the directory does not restrict it to routable portals.
type PortalResponse struct {
	Portal string `json:"portal"`
}

// Event is one message from the directory's session event stream.
type Event struct {
	Type      string    `json:"type"`
	UserID    string    `json:"user_id,omitempty"`
	SessionID string    `json:"session_id,omitempty"`
	At        time.Time `json:"at"`
}

// Event stream message types.
const (
	EventSignedIn       = "SIGNED_IN"
	EventSignedOut      = "SIGNED_OUT"
	EventTokenRefreshed = "TOKEN_REFRESHED"
)

// HealthResponse is returned by the /livez and /readyz endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports per-dependency readiness.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// DirectorySession is an active session as reported by a Directory backend.
type DirectorySession struct {
	Token     string
	ExpiresAt time.Time
	User      UserPayload
}
