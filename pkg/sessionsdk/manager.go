package sessionsdk

import (
	"context"
	"errors"
	"sync"
)

// State is the session machine state. The machine cycles for the lifetime
// of the process; there is no terminal state.
type State string

const (
	// StateUnresolved holds until the first restore completes.
	StateUnresolved State = "unresolved"

	StateAuthenticated   State = "authenticated"
	StateUnauthenticated State = "unauthenticated"
)

// Snapshot is the read view exposed to consumers. Identity is nil unless
// State is StateAuthenticated; an authenticated snapshot always carries a
// portal.
type Snapshot struct {
	State    State
	Identity *Identity
	Portal   Portal

	// Loading is true while a restore or login is in flight.
	Loading bool
}

// Authenticated reports whether the snapshot carries a live session.
func (s Snapshot) Authenticated() bool {
	return s.State == StateAuthenticated
}

// Manager owns the current session. It is the single writer; everything
// else reads snapshots or subscribes. Operations may be called from any
// goroutine; commits are serialized by generation, and a commit whose
// generation went stale while its resolution was in flight is discarded.
type Manager struct {
	directory Directory
	resolver  *Resolver
	persist   *FallbackStore

	mu       sync.Mutex
	gen      uint64
	inflight int
	state    State
	session  *Session

	subMu   sync.Mutex
	nextSub int
	subs    map[int]func(Snapshot)
}

// ManagerOptions configures optional Manager behavior.
type ManagerOptions struct {
	// FallbackEntries overrides the static credential table. Nil means the
	// built-in demo entries; an empty non-nil slice disables the fallback.
	FallbackEntries []FallbackEntry

	// FallbackStore persists fallback sessions across restarts. Nil disables
	// persistence.
	FallbackStore *FallbackStore
}

// NewManager creates a Manager over the given directory backend.
func NewManager(directory Directory, opts ManagerOptions) *Manager {
	entries := opts.FallbackEntries
	if entries == nil {
		entries = DefaultFallbackEntries()
	}
	return &Manager{
		directory: directory,
		resolver:  &Resolver{Directory: directory, Fallback: entries},
		persist:   opts.FallbackStore,
		state:     StateUnresolved,
		subs:      make(map[int]func(Snapshot)),
	}
}

// Snapshot returns the current session state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Login authenticates and commits the resolved (Identity, Portal) pair as
// the current session. On any failure the existing session is left
// untouched and false is returned; the caller learns nothing about which
// path or factor failed.
func (m *Manager) Login(ctx context.Context, email, password string) bool {
	gen := m.begin()

	res, err := m.resolver.Authenticate(ctx, email, password)
	if err != nil {
		m.finish(gen, failureKeepsSession)
		return false
	}

	committed := m.finish(gen, commitSession(&res.Session))
	if !committed {
		return false
	}

	if res.FromFallback {
		_ = m.persist.Save(res.Session.Identity, res.Session.Portal)
	}
	return true
}

// Restore re-derives the session from the directory's currently active
// session, or from a persisted fallback session when the directory has none
// to offer. It is idempotent: with no underlying change, repeated calls
// commit equivalent sessions.
func (m *Manager) Restore(ctx context.Context) Snapshot {
	gen := m.begin()

	session := m.deriveSession(ctx)
	m.finish(gen, commitSession(session))
	return m.Snapshot()
}

// Logout clears the session unconditionally and invalidates the directory
// session behind it. Safe to call with no session. The generation is bumped
// before any I/O, so a login still in flight can never resurrect the
// session it was about to commit.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	m.gen++
	m.state = StateUnauthenticated
	m.session = nil
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.notify(snap)

	_ = m.directory.SignOut(ctx)
	_ = m.persist.Clear()
}

func (m *Manager) deriveSession(ctx context.Context) *Session {
	ds, err := m.directory.GetSession(ctx)
	switch {
	case err == nil:
		authorizer := PortalAuthorizer{Directory: m.directory}
		portal, ok := authorizer.ResolvePortal(ctx)
		if !ok {
			return nil
		}
		return &Session{Identity: newIdentity(ds.User, portal), Portal: portal}

	case errors.Is(err, ErrNoSession), errors.Is(err, ErrDirectoryUnavailable):
		if identity, portal, ok := m.persist.Load(); ok {
			return &Session{Identity: identity, Portal: portal}
		}
		return nil

	default:
		return nil
	}
}

// commitMode says what a finished operation does to the session value.
type commitMode func(m *Manager)

// commitSession replaces the session wholesale. A nil session collapses to
// StateUnauthenticated; a session always carries a portal by construction.
func commitSession(s *Session) commitMode {
	return func(m *Manager) {
		m.session = s
		if s == nil {
			m.state = StateUnauthenticated
		} else {
			m.state = StateAuthenticated
		}
	}
}

// failureKeepsSession leaves the current session as it was, only resolving
// the initial Unresolved state.
func failureKeepsSession(m *Manager) {
	if m.state == StateUnresolved {
		m.state = StateUnauthenticated
	}
}

// begin opens a new operation generation.
func (m *Manager) begin() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	m.inflight++
	return m.gen
}

// finish applies the commit if the operation's generation is still current.
// A stale generation means a newer operation (or a logout) superseded this
// one; its result is discarded.
func (m *Manager) finish(gen uint64, apply commitMode) bool {
	m.mu.Lock()
	m.inflight--

	if gen != m.gen {
		m.mu.Unlock()
		return false
	}

	apply(m)
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.notify(snap)
	return true
}

func (m *Manager) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:   m.state,
		Loading: m.inflight > 0,
	}
	if m.session != nil {
		identity := m.session.Identity
		snap.Identity = &identity
		snap.Portal = m.session.Portal
	}
	return snap
}
