package sessionsdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/synkcrm/sessiond/pkg/httpx"
)

// Error codes carried in directory error responses.
const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeInvalidToken       = "invalid_token"
	ErrorCodeServerError        = "server_error"
)

// Sentinel errors returned by Directory implementations. The resolver's
// fallback policy hangs off these: only ErrDirectoryUnavailable triggers the
// static credential check.
var (
	// ErrInvalidCredentials means the directory was reached and rejected the
	// credentials. It deliberately carries no detail about which factor failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDirectoryUnavailable means the directory could not be reached at all
	// (transport failure or a 5xx answer).
	ErrDirectoryUnavailable = errors.New("identity directory unavailable")

	// ErrNoSession means no active directory session exists.
	ErrNoSession = errors.New("no active session")

	// ErrNoPortal means the identity has no routable portal assignment.
	ErrNoPortal = errors.New("no portal assignment")

	// ErrNotAuthorized means the credentials were valid but the identity is
	// not mapped to any routable portal.
	ErrNotAuthorized = errors.New("not authorized for any portal")
)

// APIError is the wire error shape shared by the directory server and this
// client. It implements the error interface on both sides.
type APIError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

// Predefined errors used by the directory's HTTP handlers.
var (
	ErrAPIInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	ErrAPIInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "invalid credentials",
	}

	ErrAPIInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "the session token is missing, expired or revoked",
	}

	ErrAPIServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)
