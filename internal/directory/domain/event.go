package domain

import "time"

// AuthEventType enumerates the session transitions the directory reports to
// event stream subscribers.
type AuthEventType string

const (
	EventSignedIn  AuthEventType = "SIGNED_IN"
	EventSignedOut AuthEventType = "SIGNED_OUT"
	EventRefreshed AuthEventType = "TOKEN_REFRESHED"
)

// AuthEvent is broadcast whenever a session is created, refreshed or
// revoked, so clients can re-derive their state without polling.
type AuthEvent struct {
	Type      AuthEventType `json:"type"`
	UserID    string        `json:"user_id,omitempty"`
	SessionID string        `json:"session_id,omitempty"`
	At        time.Time     `json:"at"`
}
