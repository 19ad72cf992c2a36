package sessionsdk

import (
	"context"
	"errors"
)

// Resolver exchanges credentials for a Session. The primary path is the
// directory; the static fallback entries are consulted only when the
// directory cannot be reached, never after it explicitly rejected the
// credentials. An explicit rejection masked by a fallback success would hide
// real authentication failures behind the demo accounts.
type Resolver struct {
	Directory Directory

	// Fallback is the static credential table. Empty means no fallback path.
	Fallback []FallbackEntry
}

// Resolution is the outcome of a successful authentication.
type Resolution struct {
	Session Session

	// FromFallback is true when the session was synthesized from a static
	// entry without a directory session behind it.
	FromFallback bool
}

// Authenticate runs the primary and, where policy allows, fallback paths.
// Every failure mode surfaces as ErrInvalidCredentials or ErrNotAuthorized;
// no distinction between unknown email and wrong password survives.
func (r *Resolver) Authenticate(ctx context.Context, email, password string) (Resolution, error) {
	ds, err := r.Directory.SignInWithPassword(ctx, email, password)
	switch {
	case err == nil:
		authorizer := PortalAuthorizer{Directory: r.Directory}
		portal, ok := authorizer.ResolvePortal(ctx)
		if !ok {
			return Resolution{}, ErrNotAuthorized
		}
		return Resolution{
			Session: Session{Identity: newIdentity(ds.User, portal), Portal: portal},
		}, nil

	case errors.Is(err, ErrDirectoryUnavailable):
		entry, ok := matchFallback(r.Fallback, email, password)
		if !ok {
			return Resolution{}, ErrInvalidCredentials
		}
		return Resolution{
			Session:      Session{Identity: entry.Identity, Portal: entry.Portal},
			FromFallback: true,
		}, nil

	default:
		return Resolution{}, ErrInvalidCredentials
	}
}
