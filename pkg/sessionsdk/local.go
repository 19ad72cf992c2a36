package sessionsdk

import (
	"context"
	"crypto/subtle"
	"strings"
	"sync"
	"time"

	"github.com/synkcrm/sessiond/pkg/cryptox"
)

// LocalAccount is one in-process demo account served by LocalDirectory.
type LocalAccount struct {
	Password string
	Portal   string // raw profile value, may be non-routable
	User     UserPayload
}

// LocalDirectory is the demo Directory backend: a fixed account set held in
// process, no network. It honours the same contract as HTTPDirectory,
// including the unavailability error, so the resolver's fallback policy can
// be exercised against it.
type LocalDirectory struct {
	mu          sync.Mutex
	accounts    map[string]LocalAccount // keyed by lowercase email
	current     *DirectorySession
	portal      string
	unavailable bool
	sessionTTL  time.Duration

	subMu  sync.Mutex
	nextID int
	subs   map[int]chan Event
}

// NewLocalDirectory creates a demo directory with the given accounts.
func NewLocalDirectory(accounts map[string]LocalAccount) *LocalDirectory {
	normalized := make(map[string]LocalAccount, len(accounts))
	for email, acct := range accounts {
		normalized[lowerEmail(email)] = acct
	}
	return &LocalDirectory{
		accounts:   normalized,
		sessionTTL: 15 * time.Minute,
		subs:       make(map[int]chan Event),
	}
}

// SetAvailable toggles the simulated reachability of the directory.
func (d *LocalDirectory) SetAvailable(available bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.unavailable = !available
}

func (d *LocalDirectory) SignInWithPassword(ctx context.Context, email, password string) (DirectorySession, error) {
	d.mu.Lock()

	if d.unavailable {
		d.mu.Unlock()
		return DirectorySession{}, ErrDirectoryUnavailable
	}

	acct, ok := d.accounts[lowerEmail(email)]
	if !ok || subtle.ConstantTimeCompare([]byte(acct.Password), []byte(password)) != 1 {
		d.mu.Unlock()
		return DirectorySession{}, ErrInvalidCredentials
	}

	sess := DirectorySession{
		Token:     cryptox.MustGenerateToken(cryptox.TokenSize256),
		ExpiresAt: time.Now().Add(d.sessionTTL),
		User:      acct.User,
	}
	d.current = &sess
	d.portal = acct.Portal
	d.mu.Unlock()

	d.publish(Event{Type: EventSignedIn, UserID: acct.User.ID, At: time.Now().UTC()})
	return sess, nil
}

func (d *LocalDirectory) GetSession(ctx context.Context) (DirectorySession, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.unavailable {
		return DirectorySession{}, ErrDirectoryUnavailable
	}
	if d.current == nil || time.Now().After(d.current.ExpiresAt) {
		return DirectorySession{}, ErrNoSession
	}
	return *d.current, nil
}

func (d *LocalDirectory) PortalFor(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.unavailable {
		return "", ErrDirectoryUnavailable
	}
	if d.current == nil {
		return "", ErrNoSession
	}
	if d.portal == "" {
		return "", ErrNoPortal
	}
	return d.portal, nil
}

func (d *LocalDirectory) SignOut(ctx context.Context) error {
	d.mu.Lock()
	had := d.current != nil
	var userID string
	if had {
		userID = d.current.User.ID
	}
	d.current = nil
	d.portal = ""
	d.mu.Unlock()

	if had {
		d.publish(Event{Type: EventSignedOut, UserID: userID, At: time.Now().UTC()})
	}
	return nil
}

func (d *LocalDirectory) Events(ctx context.Context) (<-chan Event, func(), error) {
	d.subMu.Lock()
	id := d.nextID
	d.nextID++
	ch := make(chan Event, 16)
	d.subs[id] = ch
	d.subMu.Unlock()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			d.subMu.Lock()
			defer d.subMu.Unlock()
			delete(d.subs, id)
			close(ch)
		})
	}

	go func() {
		<-ctx.Done()
		stop()
	}()

	return ch, stop, nil
}

func (d *LocalDirectory) eventSubscribers() int {
	d.subMu.Lock()
	defer d.subMu.Unlock()
	return len(d.subs)
}

func (d *LocalDirectory) publish(ev Event) {
	d.subMu.Lock()
	defer d.subMu.Unlock()
	for _, ch := range d.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

func lowerEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
