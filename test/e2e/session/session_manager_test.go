package session_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/synkcrm/sessiond/pkg/sessionsdk"
)

// TestManagerLoginAgainstLiveDirectory runs the full login flow through the
// Manager with an HTTP backend: routable portals commit, the manager
// assignment is rejected even though its credentials are valid.
func TestManagerLoginAgainstLiveDirectory(t *testing.T) {
	baseURL, cleanup := setupDirectoryContainer(t)
	defer cleanup()

	t.Run("admin commits", func(t *testing.T) {
		mgr := sessionsdk.NewManager(sessionsdk.NewHTTPDirectory(baseURL), sessionsdk.ManagerOptions{})

		require.True(t, mgr.Login(t.Context(), adminEmail, demoPassword))

		snap := mgr.Snapshot()
		require.True(t, snap.Authenticated())
		require.Equal(t, sessionsdk.PortalAdmin, snap.Portal)
		require.Equal(t, adminEmail, snap.Identity.Email)
	})

	t.Run("partner commits", func(t *testing.T) {
		mgr := sessionsdk.NewManager(sessionsdk.NewHTTPDirectory(baseURL), sessionsdk.ManagerOptions{})

		require.True(t, mgr.Login(t.Context(), partnerEmail, demoPassword))
		require.Equal(t, sessionsdk.PortalPartner, mgr.Snapshot().Portal)
	})

	t.Run("manager is rejected despite valid credentials", func(t *testing.T) {
		mgr := sessionsdk.NewManager(sessionsdk.NewHTTPDirectory(baseURL), sessionsdk.ManagerOptions{})

		require.False(t, mgr.Login(t.Context(), managerEmail, demoPassword))
		require.False(t, mgr.Snapshot().Authenticated())
	})
}

// TestManagerLogoutAgainstLiveDirectory verifies logout revokes the
// directory session, not just the local state.
func TestManagerLogoutAgainstLiveDirectory(t *testing.T) {
	baseURL, cleanup := setupDirectoryContainer(t)
	defer cleanup()

	dir := sessionsdk.NewHTTPDirectory(baseURL)
	mgr := sessionsdk.NewManager(dir, sessionsdk.ManagerOptions{})

	require.True(t, mgr.Login(t.Context(), adminEmail, demoPassword))
	mgr.Logout(t.Context())

	require.False(t, mgr.Snapshot().Authenticated())

	_, err := dir.GetSession(t.Context())
	require.ErrorIs(t, err, sessionsdk.ErrNoSession, "Directory session should be revoked")
}

// TestManagerRestoreAgainstLiveDirectory verifies a fresh manager over a
// client holding a live token restores straight to authenticated.
func TestManagerRestoreAgainstLiveDirectory(t *testing.T) {
	baseURL, cleanup := setupDirectoryContainer(t)
	defer cleanup()

	tokenPath := filepath.Join(t.TempDir(), "session-token")

	first := sessionsdk.NewHTTPDirectory(baseURL)
	first.TokenPath = tokenPath
	_, err := first.SignInWithPassword(t.Context(), partnerEmail, demoPassword)
	require.NoError(t, err)

	// Simulate a restart: new client, new manager, same token file.
	second := sessionsdk.NewHTTPDirectory(baseURL)
	second.TokenPath = tokenPath
	mgr := sessionsdk.NewManager(second, sessionsdk.ManagerOptions{})

	snap := mgr.Restore(t.Context())
	require.True(t, snap.Authenticated())
	require.Equal(t, sessionsdk.PortalPartner, snap.Portal)
	require.Equal(t, partnerEmail, snap.Identity.Email)
}

// TestManagerFallbackWhenDirectoryDown verifies the static fallback table
// only takes over once the directory is actually unreachable.
func TestManagerFallbackWhenDirectoryDown(t *testing.T) {
	baseURL, cleanup := setupDirectoryContainer(t)

	dir := sessionsdk.NewHTTPDirectory(baseURL)
	store := &sessionsdk.FallbackStore{Path: filepath.Join(t.TempDir(), "fallback.json")}
	mgr := sessionsdk.NewManager(dir, sessionsdk.ManagerOptions{FallbackStore: store})

	// Directory is up: the demo credentials resolve against the live
	// directory, not the fallback table.
	require.True(t, mgr.Login(t.Context(), adminEmail, demoPassword))
	mgr.Logout(t.Context())

	// Take the directory down.
	cleanup()

	require.True(t, mgr.Login(t.Context(), "admin@test.com", demoPassword),
		"Fallback credentials should work while the directory is down")

	snap := mgr.Snapshot()
	require.True(t, snap.Authenticated())
	require.Equal(t, sessionsdk.PortalAdmin, snap.Portal)
	require.Equal(t, "demo-admin", snap.Identity.ID, "Session should be the static fallback identity")

	// Wrong password stays rejected even with the directory down.
	require.False(t, mgr.Login(t.Context(), adminEmail, "wrongpassword"))
}
