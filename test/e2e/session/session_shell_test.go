package session_test

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestShellRequiresLogin verifies the portal shells bounce anonymous
// visitors to the login page.
func TestShellRequiresLogin(t *testing.T) {
	baseURL, cleanup := setupDirectoryContainer(t)
	defer cleanup()

	client := browserClient(t)

	for _, path := range []string{"/admin", "/partner"} {
		resp, err := client.Get(baseURL + path)
		require.NoError(t, err)
		assertRedirect(t, resp, "/login")
	}
}

// TestShellServesMatchingPortal verifies a signed-in admin lands on the
// admin shell and sees their name in it.
func TestShellServesMatchingPortal(t *testing.T) {
	baseURL, cleanup := setupDirectoryContainer(t)
	defer cleanup()

	client := browserClient(t)

	resp := signInForm(t, client, baseURL, adminEmail, demoPassword)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err := client.Get(baseURL + "/admin")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), "admin"), "Shell should name its portal")
}

// TestShellRedirectsToAssignedPortal verifies a partner visiting the admin
// shell is sent to their own portal instead.
func TestShellRedirectsToAssignedPortal(t *testing.T) {
	baseURL, cleanup := setupDirectoryContainer(t)
	defer cleanup()

	client := browserClient(t)

	resp := signInForm(t, client, baseURL, partnerEmail, demoPassword)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err := client.Get(baseURL + "/admin")
	require.NoError(t, err)
	assertRedirect(t, resp, "/partner")
}

// TestShellRejectsUnroutablePortal verifies the manager account, despite a
// valid session, cannot land on any shell.
func TestShellRejectsUnroutablePortal(t *testing.T) {
	baseURL, cleanup := setupDirectoryContainer(t)
	defer cleanup()

	client := browserClient(t)

	resp := signInForm(t, client, baseURL, managerEmail, demoPassword)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, path := range []string{"/admin", "/partner"} {
		resp, err := client.Get(baseURL + path)
		require.NoError(t, err)
		assertRedirect(t, resp, "/login")
	}
}

// TestLogoutShell verifies the logout page revokes the session and bounces
// to login; a repeat visit is harmless.
func TestLogoutShell(t *testing.T) {
	baseURL, cleanup := setupDirectoryContainer(t)
	defer cleanup()

	client := browserClient(t)

	resp := signInForm(t, client, baseURL, adminEmail, demoPassword)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err := client.Get(baseURL + "/logout")
	require.NoError(t, err)
	assertRedirect(t, resp, "/login")

	// The cookie is gone; the shell treats us as anonymous again.
	resp, err = client.Get(baseURL + "/admin")
	require.NoError(t, err)
	assertRedirect(t, resp, "/login")

	// Logging out without a session is fine.
	resp, err = client.Get(baseURL + "/logout")
	require.NoError(t, err)
	assertRedirect(t, resp, "/login")
}
