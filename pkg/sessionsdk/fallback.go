package sessionsdk

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"os"
	"time"
)

// FallbackEntry is one static credential usable when the directory is
// unreachable. Exactly two exist, one per portal; the set is never mutated
// at runtime.
type FallbackEntry struct {
	Email    string
	Password string
	Portal   Portal
	Identity Identity
}

// DefaultFallbackEntries returns the two built-in demo credentials.
func DefaultFallbackEntries() []FallbackEntry {
	now := time.Now().UTC()
	return []FallbackEntry{
		{
			Email:    "admin@test.com",
			Password: "demo123",
			Portal:   PortalAdmin,
			Identity: Identity{
				ID:          "demo-admin",
				Email:       "admin@test.com",
				FirstName:   "Demo",
				LastName:    "Admin",
				Role:        string(PortalAdmin),
				Permissions: portalPermissions(PortalAdmin),
				LastLogin:   &now,
			},
		},
		{
			Email:    "partner@test.com",
			Password: "demo123",
			Portal:   PortalPartner,
			Identity: Identity{
				ID:          "demo-partner",
				Email:       "partner@test.com",
				FirstName:   "Demo",
				LastName:    "Partner",
				Role:        string(PortalPartner),
				Permissions: portalPermissions(PortalPartner),
				LastLogin:   &now,
			},
		},
	}
}

// matchFallback checks credentials against the entries by exact match.
func matchFallback(entries []FallbackEntry, email, password string) (FallbackEntry, bool) {
	for _, e := range entries {
		emailOK := subtle.ConstantTimeCompare([]byte(e.Email), []byte(email)) == 1
		passOK := subtle.ConstantTimeCompare([]byte(e.Password), []byte(password)) == 1
		if emailOK && passOK {
			return e, true
		}
	}
	return FallbackEntry{}, false
}

// Keys under which a fallback session is persisted. Carried over from the
// legacy local-storage mode so existing stored sessions keep working.
const (
	fallbackIdentityKey = "synkcrm_fallback_identity"
	fallbackPortalKey   = "synkcrm_fallback_portal"
)

// FallbackStore persists a fallback-path session to a local key-value file
// so it survives a restart. Directory-backed sessions never pass through
// here; the directory owns its own persistence.
type FallbackStore struct {
	Path string
}

// Save writes the identity and portal under the two fixed keys.
func (s *FallbackStore) Save(identity Identity, portal Portal) error {
	if s == nil || s.Path == "" {
		return nil
	}

	rawIdentity, err := json.Marshal(identity)
	if err != nil {
		return err
	}

	kv := map[string]json.RawMessage{
		fallbackIdentityKey: rawIdentity,
		fallbackPortalKey:   json.RawMessage(`"` + string(portal) + `"`),
	}
	raw, err := json.MarshalIndent(kv, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, raw, 0600)
}

// Load restores a previously saved identity and portal. The stored pair is
// returned verbatim; a missing or unreadable file is simply "nothing saved".
func (s *FallbackStore) Load() (Identity, Portal, bool) {
	if s == nil || s.Path == "" {
		return Identity{}, "", false
	}

	raw, err := os.ReadFile(s.Path)
	if err != nil {
		return Identity{}, "", false
	}

	var kv map[string]json.RawMessage
	if err := json.Unmarshal(raw, &kv); err != nil {
		return Identity{}, "", false
	}

	var identity Identity
	if err := json.Unmarshal(kv[fallbackIdentityKey], &identity); err != nil {
		return Identity{}, "", false
	}
	var portalRaw string
	if err := json.Unmarshal(kv[fallbackPortalKey], &portalRaw); err != nil {
		return Identity{}, "", false
	}

	portal, ok := ParsePortal(portalRaw)
	if !ok {
		return Identity{}, "", false
	}
	return identity, portal, true
}

// Clear removes any persisted fallback session.
func (s *FallbackStore) Clear() error {
	if s == nil || s.Path == "" {
		return nil
	}
	err := os.Remove(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
