package sessionsdk

import "time"

// Portal is a routable application area. Only admin and partner exist;
// directory profiles can carry other values but those are never routable.
type Portal string

const (
	PortalAdmin   Portal = "admin"
	PortalPartner Portal = "partner"
)

// ParsePortal validates a raw profile value against the routable set.
func ParsePortal(raw string) (Portal, bool) {
	switch Portal(raw) {
	case PortalAdmin, PortalPartner:
		return Portal(raw), true
	default:
		return "", false
	}
}

// Identity is the authenticated principal as the application sees it.
// It is always built by newIdentity at the directory boundary; raw directory
// payloads never cross into application code.
type Identity struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name,omitempty"`
	LastName    string     `json:"last_name,omitempty"`
	AvatarURL   string     `json:"avatar_url,omitempty"`
	Role        string     `json:"role"`
	Permissions []string   `json:"permissions"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
}

// DisplayName joins the name parts, falling back to the email.
func (i Identity) DisplayName() string {
	switch {
	case i.FirstName != "" && i.LastName != "":
		return i.FirstName + " " + i.LastName
	case i.FirstName != "":
		return i.FirstName
	case i.LastName != "":
		return i.LastName
	default:
		return i.Email
	}
}

// Session binds an Identity to the Portal it may enter. A Session without a
// portal is not a thing; constructors must refuse to build one.
type Session struct {
	Identity Identity `json:"identity"`
	Portal   Portal   `json:"portal"`
}

// newIdentity maps a directory user payload plus a resolved portal into the
// application Identity shape.
func newIdentity(u UserPayload, portal Portal) Identity {
	return Identity{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		AvatarURL:   u.AvatarURL,
		Role:        string(portal),
		Permissions: portalPermissions(portal),
		LastLogin:   u.LastLogin,
	}
}

// portalPermissions returns the capability set granted with each portal.
func portalPermissions(portal Portal) []string {
	switch portal {
	case PortalAdmin:
		return []string{"manage_integrations", "view_analytics", "manage_users", "system_settings"}
	case PortalPartner:
		return []string{"view_opportunities", "manage_campaigns", "view_reports"}
	default:
		return nil
	}
}
