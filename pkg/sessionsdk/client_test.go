package sessionsdk

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/synkcrm/sessiond/pkg/httpx"
)

func TestHTTPDirectorySignIn(t *testing.T) {
	ctx := context.Background()

	t.Run("success stores and mirrors the token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/v1/auth/signin", r.URL.Path)
			require.NoError(t, r.ParseForm())
			require.Equal(t, "alice@example.com", r.Form.Get("email"))
			require.Equal(t, "pw", r.Form.Get("password"))

			httpx.WriteJSON(w, http.StatusOK, SessionResponse{
				SessionToken: "token-1",
				TokenType:    "Bearer",
				ExpiresIn:    900,
				User:         UserPayload{ID: "u1", Email: "alice@example.com"},
			})
		}))
		defer srv.Close()

		dir := NewHTTPDirectory(srv.URL)
		dir.TokenPath = filepath.Join(t.TempDir(), "token")

		ds, err := dir.SignInWithPassword(ctx, "alice@example.com", "pw")
		require.NoError(t, err)
		require.Equal(t, "token-1", ds.Token)
		require.Equal(t, "u1", ds.User.ID)

		raw, err := os.ReadFile(dir.TokenPath)
		require.NoError(t, err)
		require.Equal(t, "token-1", string(raw))
	})

	t.Run("rejection maps to ErrInvalidCredentials", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ErrAPIInvalidCredentials.WriteError(w)
		}))
		defer srv.Close()

		dir := NewHTTPDirectory(srv.URL)
		_, err := dir.SignInWithPassword(ctx, "alice@example.com", "bad")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("5xx maps to ErrDirectoryUnavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ErrAPIServerError.WriteError(w)
		}))
		defer srv.Close()

		dir := NewHTTPDirectory(srv.URL)
		_, err := dir.SignInWithPassword(ctx, "alice@example.com", "pw")
		require.ErrorIs(t, err, ErrDirectoryUnavailable)
	})

	t.Run("unreachable server maps to ErrDirectoryUnavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		dir := NewHTTPDirectory(srv.URL)
		_, err := dir.SignInWithPassword(ctx, "alice@example.com", "pw")
		require.ErrorIs(t, err, ErrDirectoryUnavailable)
	})
}

func TestHTTPDirectoryGetSession(t *testing.T) {
	ctx := context.Background()

	t.Run("no token short-circuits to ErrNoSession", func(t *testing.T) {
		dir := NewHTTPDirectory("http://directory.invalid")
		_, err := dir.GetSession(ctx)
		require.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("reads the token back from the token file", func(t *testing.T) {
		var gotAuth string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			httpx.WriteJSON(w, http.StatusOK, SessionResponse{
				SessionToken: "persisted-token",
				TokenType:    "Bearer",
				ExpiresIn:    900,
				User:         UserPayload{ID: "u1"},
			})
		}))
		defer srv.Close()

		path := filepath.Join(t.TempDir(), "token")
		require.NoError(t, os.WriteFile(path, []byte("persisted-token\n"), 0600))

		dir := NewHTTPDirectory(srv.URL)
		dir.TokenPath = path

		ds, err := dir.GetSession(ctx)
		require.NoError(t, err)
		require.Equal(t, "persisted-token", ds.Token)
		require.Equal(t, "Bearer persisted-token", gotAuth)
	})

	t.Run("adopts a re-minted token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			httpx.WriteJSON(w, http.StatusOK, SessionResponse{
				SessionToken: "token-2",
				TokenType:    "Bearer",
				ExpiresIn:    900,
				User:         UserPayload{ID: "u1"},
			})
		}))
		defer srv.Close()

		path := filepath.Join(t.TempDir(), "token")
		require.NoError(t, os.WriteFile(path, []byte("token-1"), 0600))

		dir := NewHTTPDirectory(srv.URL)
		dir.TokenPath = path

		ds, err := dir.GetSession(ctx)
		require.NoError(t, err)
		require.Equal(t, "token-2", ds.Token)

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Equal(t, "token-2", string(raw))
	})

	t.Run("expired token maps to ErrNoSession and drops the token", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ErrAPIInvalidToken.WriteError(w)
		}))
		defer srv.Close()

		path := filepath.Join(t.TempDir(), "token")
		require.NoError(t, os.WriteFile(path, []byte("stale"), 0600))

		dir := NewHTTPDirectory(srv.URL)
		dir.TokenPath = path

		_, err := dir.GetSession(ctx)
		require.ErrorIs(t, err, ErrNoSession)

		_, err = os.Stat(path)
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestHTTPDirectoryPortalFor(t *testing.T) {
	ctx := context.Background()

	newDir := func(t *testing.T, handler http.HandlerFunc) *HTTPDirectory {
		t.Helper()
		srv := httptest.NewServer(handler)
		t.Cleanup(srv.Close)

		path := filepath.Join(t.TempDir(), "token")
		require.NoError(t, os.WriteFile(path, []byte("token-1"), 0600))

		dir := NewHTTPDirectory(srv.URL)
		dir.TokenPath = path
		return dir
	}

	t.Run("returns the raw portal value", func(t *testing.T) {
		dir := newDir(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/v1/profiles/portal", r.URL.Path)
			httpx.WriteJSON(w, http.StatusOK, PortalResponse{Portal: "manager"})
		})

		portal, err := dir.PortalFor(ctx)
		require.NoError(t, err)
		require.Equal(t, "manager", portal)
	})

	t.Run("absent profile maps to ErrNoPortal", func(t *testing.T) {
		dir := newDir(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		_, err := dir.PortalFor(ctx)
		require.ErrorIs(t, err, ErrNoPortal)
	})
}

func TestHTTPDirectorySignOut(t *testing.T) {
	ctx := context.Background()

	t.Run("revokes and forgets the token", func(t *testing.T) {
		var called bool
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			require.Equal(t, "/v1/auth/signout", r.URL.Path)
			require.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusNoContent)
		}))
		defer srv.Close()

		path := filepath.Join(t.TempDir(), "token")
		require.NoError(t, os.WriteFile(path, []byte("token-1"), 0600))

		dir := NewHTTPDirectory(srv.URL)
		dir.TokenPath = path

		require.NoError(t, dir.SignOut(ctx))
		require.True(t, called)

		_, err := os.Stat(path)
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("no token means nothing to do", func(t *testing.T) {
		dir := NewHTTPDirectory("http://directory.invalid")
		require.NoError(t, dir.SignOut(ctx))
	})
}
