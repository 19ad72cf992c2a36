package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/synkcrm/sessiond/internal/directory/domain"
)

func TestSignIn(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newIdentityService(t, st, 0)
	user := createTestUser(t, st, "alice@example.com", "correct horse")

	t.Run("valid credentials mint a verifiable token", func(t *testing.T) {
		events, cancel := svc.Events.Subscribe()
		defer cancel()

		res, err := svc.SignIn(ctx, "alice@example.com", "correct horse")
		require.NoError(t, err)
		require.Equal(t, user.ID, res.User.ID)
		require.NotEmpty(t, res.SessionID)
		require.True(t, res.ExpiresAt.After(time.Now()))

		claims, err := svc.Signer.Verify(res.Token)
		require.NoError(t, err)
		require.Equal(t, user.ID, claims.Subject)
		require.Equal(t, res.SessionID, claims.SID)
		require.Equal(t, "alice@example.com", claims.Email)

		sess, err := st.Sessions().GetSessionByID(ctx, res.SessionID)
		require.NoError(t, err)
		require.True(t, sess.Active(time.Now()))

		ev := <-events
		require.Equal(t, domain.EventSignedIn, ev.Type)
		require.Equal(t, user.ID, ev.UserID)
	})

	t.Run("email lookup is case-insensitive", func(t *testing.T) {
		_, err := svc.SignIn(ctx, "ALICE@example.com", "correct horse")
		require.NoError(t, err)
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		_, err := svc.SignIn(ctx, "alice@example.com", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email rejected with the same error", func(t *testing.T) {
		_, err := svc.SignIn(ctx, "nobody@example.com", "correct horse")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("sign-in records last login", func(t *testing.T) {
		fresh, err := st.Users().GetUserByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, fresh.LastLoginAt)
	})
}

func TestSessionFromToken(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newIdentityService(t, st, 0)
	user := createTestUser(t, st, "bob@example.com", "hunter2hunter2")

	res, err := svc.SignIn(ctx, "bob@example.com", "hunter2hunter2")
	require.NoError(t, err)

	t.Run("valid token resolves the session", func(t *testing.T) {
		got, err := svc.SessionFromToken(ctx, res.Token)
		require.NoError(t, err)
		require.Equal(t, user.ID, got.User.ID)
		require.Equal(t, res.SessionID, got.SessionID)
		require.Equal(t, res.Token, got.Token)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		_, err := svc.SessionFromToken(ctx, "not.a.token")
		require.ErrorIs(t, err, ErrSessionInvalid)
	})

	t.Run("revoked session rejected even with valid signature", func(t *testing.T) {
		require.NoError(t, st.Sessions().RevokeSession(ctx, res.SessionID))
		_, err := svc.SessionFromToken(ctx, res.Token)
		require.ErrorIs(t, err, ErrSessionInvalid)
	})
}

func TestSessionFromTokenRefreshesNearExpiry(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	// A TTL below the refresh threshold makes every minted token immediately
	// eligible for re-mint.
	svc := newIdentityService(t, st, 2*time.Minute)
	createTestUser(t, st, "carol@example.com", "pass-phrase")

	events, cancel := svc.Events.Subscribe()
	defer cancel()

	res, err := svc.SignIn(ctx, "carol@example.com", "pass-phrase")
	require.NoError(t, err)
	<-events // consume SIGNED_IN

	got, err := svc.SessionFromToken(ctx, res.Token)
	require.NoError(t, err)
	require.NotEqual(t, res.Token, got.Token)
	require.Equal(t, res.SessionID, got.SessionID)
	require.True(t, got.ExpiresAt.After(res.ExpiresAt) || got.ExpiresAt.Equal(res.ExpiresAt))

	claims, err := svc.Signer.Verify(got.Token)
	require.NoError(t, err)
	require.Equal(t, res.SessionID, claims.SID)

	ev := <-events
	require.Equal(t, domain.EventRefreshed, ev.Type)
}

func TestSignOut(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newIdentityService(t, st, 0)
	createTestUser(t, st, "dave@example.com", "secret-words")

	t.Run("revokes the session behind the token", func(t *testing.T) {
		events, cancel := svc.Events.Subscribe()
		defer cancel()

		res, err := svc.SignIn(ctx, "dave@example.com", "secret-words")
		require.NoError(t, err)
		<-events

		require.NoError(t, svc.SignOut(ctx, res.Token))

		ev := <-events
		require.Equal(t, domain.EventSignedOut, ev.Type)
		require.Equal(t, res.SessionID, ev.SessionID)

		_, err = svc.SessionFromToken(ctx, res.Token)
		require.ErrorIs(t, err, ErrSessionInvalid)
	})

	t.Run("bad tokens are ignored", func(t *testing.T) {
		require.NoError(t, svc.SignOut(ctx, "garbage"))
		require.NoError(t, svc.SignOut(ctx, ""))
	})

	t.Run("signing out twice is harmless", func(t *testing.T) {
		res, err := svc.SignIn(ctx, "dave@example.com", "secret-words")
		require.NoError(t, err)

		require.NoError(t, svc.SignOut(ctx, res.Token))
		require.NoError(t, svc.SignOut(ctx, res.Token))
	})
}
