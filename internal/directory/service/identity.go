package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/synkcrm/sessiond/internal/directory/domain"
	"github.com/synkcrm/sessiond/internal/directory/store"
	"github.com/synkcrm/sessiond/pkg/cryptox"
	"github.com/synkcrm/sessiond/pkg/idx"
	"github.com/synkcrm/sessiond/pkg/jwtx"
	"github.com/synkcrm/sessiond/pkg/slogx"
)

var (
	// ErrInvalidCredentials covers unknown email and wrong password alike so
	// callers cannot tell which factor failed.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrSessionInvalid covers missing, expired and revoked sessions.
	ErrSessionInvalid = errors.New("session_invalid")
)

// refreshThreshold is how close to expiry a token must be before GetSession
// re-mints it.
const refreshThreshold = 5 * time.Minute

// IdentityService authenticates credentials and manages session tokens.
type IdentityService struct {
	Store      store.Store
	Signer     *jwtx.Signer
	Events     *EventHub
	Issuer     string
	SessionTTL time.Duration
}

// SignInResult carries everything a sign-in response needs.
type SignInResult struct {
	Token     string
	ExpiresAt time.Time
	User      domain.User
	SessionID string
}

// SignIn verifies the password for the given email and mints a session.
// The profile/portal mapping is deliberately not consulted here: valid
// credentials always produce a directory session, and routability is decided
// by the caller.
func (s *IdentityService) SignIn(ctx context.Context, email, password string) (SignInResult, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn comparable time so the error does not leak which factor
			// failed via latency.
			_ = cryptox.VerifyPassword(password, dummyHash)
			return SignInResult{}, ErrInvalidCredentials
		}
		return SignInResult{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		log.Info("sign-in rejected", slog.String("email", email))
		return SignInResult{}, ErrInvalidCredentials
	}

	now := time.Now()
	ttl := s.sessionTTL()
	sess := domain.Session{
		ID:        idx.New().String(),
		UserID:    user.ID,
		ExpiresAt: now.Add(ttl),
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Sessions().CreateSession(ctx, sess); err != nil {
			return err
		}
		return tx.Users().UpdateLastLogin(ctx, user.ID)
	})
	if err != nil {
		return SignInResult{}, err
	}

	token, err := s.mintToken(user, sess.ID, now, ttl)
	if err != nil {
		return SignInResult{}, err
	}

	s.Events.Publish(domain.EventSignedIn, user.ID, sess.ID)
	log.Info("sign-in ok", slog.String("user_id", user.ID))

	return SignInResult{
		Token:     token,
		ExpiresAt: now.Add(ttl),
		User:      user,
		SessionID: sess.ID,
	}, nil
}

// SessionFromToken validates a session token against both its signature and
// the revocation table. Tokens close to expiry are transparently re-minted;
// the returned result carries whichever token is current.
func (s *IdentityService) SessionFromToken(ctx context.Context, token string) (SignInResult, error) {
	claims, err := s.Signer.Verify(token)
	if err != nil {
		return SignInResult{}, ErrSessionInvalid
	}

	sess, err := s.Store.Sessions().GetSessionByID(ctx, claims.SID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return SignInResult{}, ErrSessionInvalid
		}
		return SignInResult{}, err
	}

	now := time.Now()
	if !sess.Active(now) {
		return SignInResult{}, ErrSessionInvalid
	}

	user, err := s.Store.Users().GetUserByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return SignInResult{}, ErrSessionInvalid
		}
		return SignInResult{}, err
	}

	result := SignInResult{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      user,
		SessionID: sess.ID,
	}

	if claims.TimeToExpiry(now) < refreshThreshold {
		ttl := s.sessionTTL()
		fresh, err := s.mintToken(user, sess.ID, now, ttl)
		if err != nil {
			return SignInResult{}, err
		}
		if err := s.Store.Sessions().ExtendSession(ctx, sess.ID, now.Add(ttl)); err != nil {
			return SignInResult{}, err
		}

		result.Token = fresh
		result.ExpiresAt = now.Add(ttl)
		s.Events.Publish(domain.EventRefreshed, user.ID, sess.ID)
	}

	return result, nil
}

// SignOut revokes the session behind the token. Bad or absent tokens are
// ignored: sign-out never fails from the caller's point of view.
func (s *IdentityService) SignOut(ctx context.Context, token string) error {
	claims, err := s.Signer.Verify(token)
	if err != nil {
		return nil
	}

	if err := s.Store.Sessions().RevokeSession(ctx, claims.SID); err != nil {
		return err
	}

	s.Events.Publish(domain.EventSignedOut, claims.Subject, claims.SID)
	return nil
}

func (s *IdentityService) mintToken(u domain.User, sid string, now time.Time, ttl time.Duration) (string, error) {
	claims := jwtx.NewSessionClaims(u.ID, sid, u.Email, u.DisplayName(), s.Issuer, ttl, now)
	return s.Signer.Sign(claims)
}

func (s *IdentityService) sessionTTL() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return jwtx.DefaultSessionTTL
}

// dummyHash is a valid argon2id hash of a random string, used for timing
// equalisation on unknown emails.
const dummyHash = "$argon2id$v=19$m=19456,t=2,p=1$c2FsdHNhbHRzYWx0c2FsdA$S5cXYPYjFLQ6nzrdHMkhjnLTIC2TmdAbnBEWJYrNH9o"
