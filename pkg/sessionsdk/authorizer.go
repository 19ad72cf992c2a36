package sessionsdk

import "context"

// PortalAuthorizer decides which portal, if any, the current directory
// identity may enter. It is a pure read over the profile mapping.
type PortalAuthorizer struct {
	Directory Directory
}

// ResolvePortal reads the profile mapping for the current session's identity
// and validates it against the routable set. Anything but an exact "admin"
// or "partner" value, including a missing profile or a lookup failure, means
// not authorized.
func (a PortalAuthorizer) ResolvePortal(ctx context.Context) (Portal, bool) {
	raw, err := a.Directory.PortalFor(ctx)
	if err != nil {
		return "", false
	}
	return ParsePortal(raw)
}
