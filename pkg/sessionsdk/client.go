package sessionsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// HTTPDirectory talks to a live directory service. The session token is held
// in memory and mirrored read-through to TokenPath when set, so a restarted
// process can pick the session back up.
type HTTPDirectory struct {
	BaseURL    string
	HTTPClient *http.Client

	// TokenPath, when non-empty, is the file the current token is mirrored
	// to. The file is the directory's artifact; nothing else writes it.
	TokenPath string

	mu    sync.Mutex
	token string
}

// NewHTTPDirectory creates a directory client for the given base URL.
func NewHTTPDirectory(baseURL string) *HTTPDirectory {
	return &HTTPDirectory{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (d *HTTPDirectory) SignInWithPassword(ctx context.Context, email, password string) (DirectorySession, error) {
	form := url.Values{}
	form.Set("email", email)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		d.BaseURL+"/v1/auth/signin", strings.NewReader(form.Encode()))
	if err != nil {
		return DirectorySession{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.HTTPClient.Do(req)
	if err != nil {
		return DirectorySession{}, ErrDirectoryUnavailable
	}

	var body SessionResponse
	if err := d.decodeSession(resp, &body); err != nil {
		return DirectorySession{}, err
	}

	d.setToken(body.SessionToken)
	return toDirectorySession(body), nil
}

func (d *HTTPDirectory) GetSession(ctx context.Context) (DirectorySession, error) {
	token := d.currentToken()
	if token == "" {
		return DirectorySession{}, ErrNoSession
	}

	resp, err := d.doAuthRequest(ctx, http.MethodGet, "/v1/auth/session", token)
	if err != nil {
		return DirectorySession{}, err
	}

	var body SessionResponse
	if err := d.decodeSession(resp, &body); err != nil {
		return DirectorySession{}, err
	}

	// The directory may have re-minted the token near expiry.
	if body.SessionToken != token {
		d.setToken(body.SessionToken)
	}
	return toDirectorySession(body), nil
}

func (d *HTTPDirectory) PortalFor(ctx context.Context) (string, error) {
	token := d.currentToken()
	if token == "" {
		return "", ErrNoSession
	}

	resp, err := d.doAuthRequest(ctx, http.MethodGet, "/v1/profiles/portal", token)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var body PortalResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return "", fmt.Errorf("failed to decode response: %w", err)
		}
		return body.Portal, nil
	case resp.StatusCode == http.StatusNotFound:
		return "", ErrNoPortal
	case resp.StatusCode == http.StatusUnauthorized:
		return "", ErrNoSession
	case resp.StatusCode >= 500:
		return "", ErrDirectoryUnavailable
	default:
		return "", parseAPIError(resp.StatusCode, resp.Body)
	}
}

func (d *HTTPDirectory) SignOut(ctx context.Context) error {
	token := d.currentToken()
	d.setToken("")
	if token == "" {
		return nil
	}

	resp, err := d.doAuthRequest(ctx, http.MethodPost, "/v1/auth/signout", token)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Events opens the directory's websocket event stream. The stream does not
// require a token: events carry no secrets and subscribers re-derive state
// through authenticated calls anyway.
func (d *HTTPDirectory) Events(ctx context.Context) (<-chan Event, func(), error) {
	wsURL, err := toWebsocketURL(d.BaseURL + "/v1/auth/events")
	if err != nil {
		return nil, nil, err
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return nil, nil, ErrDirectoryUnavailable
	}

	events := make(chan Event, 16)
	stop := func() { _ = conn.Close() }

	go func() {
		defer close(events)
		defer conn.Close()
		for {
			var ev Event
			if err := conn.ReadJSON(&ev); err != nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, stop, nil
}

func (d *HTTPDirectory) doAuthRequest(ctx context.Context, method, path, token string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, d.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := d.HTTPClient.Do(req)
	if err != nil {
		return nil, ErrDirectoryUnavailable
	}
	return resp, nil
}

// decodeSession maps a sign-in or session response body, translating error
// statuses into the sentinel errors the resolver's policy depends on.
func (d *HTTPDirectory) decodeSession(resp *http.Response, target *SessionResponse) error {
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		var body ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&body)
		if body.Error == ErrorCodeInvalidCredentials {
			return ErrInvalidCredentials
		}
		d.setToken("")
		return ErrNoSession
	case resp.StatusCode >= 500:
		return ErrDirectoryUnavailable
	default:
		return parseAPIError(resp.StatusCode, resp.Body)
	}
}

func (d *HTTPDirectory) currentToken() string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.token == "" && d.TokenPath != "" {
		if raw, err := os.ReadFile(d.TokenPath); err == nil {
			d.token = strings.TrimSpace(string(raw))
		}
	}
	return d.token
}

func (d *HTTPDirectory) setToken(token string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.token = token
	if d.TokenPath == "" {
		return
	}
	if token == "" {
		_ = os.Remove(d.TokenPath)
		return
	}
	_ = os.WriteFile(d.TokenPath, []byte(token), 0600)
}

func toDirectorySession(body SessionResponse) DirectorySession {
	return DirectorySession{
		Token:     body.SessionToken,
		ExpiresAt: time.Now().Add(time.Duration(body.ExpiresIn) * time.Second),
		User:      body.User,
	}
}

func toWebsocketURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid directory URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	return u.String(), nil
}

func parseAPIError(status int, body io.Reader) error {
	var parsed ErrorResponse
	if err := json.NewDecoder(body).Decode(&parsed); err != nil || parsed.Error == "" {
		return &APIError{StatusCode: status, Code: ErrorCodeServerError, Description: "unexpected directory response"}
	}
	return &APIError{StatusCode: status, Code: parsed.Error, Description: parsed.ErrorDescription}
}
