package http

import (
	"fmt"
	"net/http"

	"github.com/synkcrm/sessiond/internal/directory/service"
	"github.com/synkcrm/sessiond/pkg/httpx"
)

// ShellHandler serves the route-gated portal shells. Each portal page is a
// minimal placeholder; the gating is the point. Unauthenticated visitors go
// to /login, authenticated visitors on the wrong portal go to their own.
type ShellHandler struct {
	IdentityService *service.IdentityService
	ProfileService  *service.ProfileService
}

// Portal returns the gated handler for one portal shell.
func (h *ShellHandler) Portal(name string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token := httpx.BearerOrCookieToken(r)
		if token == "" {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		result, err := h.IdentityService.SessionFromToken(ctx, token)
		if err != nil {
			clearSessionCookie(w)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		portal, err := h.ProfileService.PortalForUser(ctx, result.User.ID)
		if err != nil || !routablePortal(portal) {
			// Valid credentials but no routable portal: not authorized for
			// any shell.
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		if portal != name {
			http.Redirect(w, r, "/"+portal, http.StatusSeeOther)
			return
		}

		if result.Token != token {
			setSessionCookie(w, result)
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, shellPage, name, name, result.User.DisplayName())
	})
}

// Login serves the login view all gated routes redirect to.
func (h *ShellHandler) Login(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, loginPage)
}

// Logout revokes the caller's session unconditionally and sends them to the
// login view. Safe to hit with no session at all.
func (h *ShellHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := httpx.BearerOrCookieToken(r)
	_ = h.IdentityService.SignOut(r.Context(), token)

	clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func routablePortal(portal string) bool {
	return portal == "admin" || portal == "partner"
}

const shellPage = `<!doctype html>
<html>
<head><title>SynkCRM %s</title></head>
<body>
<h1>SynkCRM %s portal</h1>
<p>Signed in as %s. <a href="/logout">Sign out</a></p>
</body>
</html>
`

const loginPage = `<!doctype html>
<html>
<head><title>SynkCRM Sign In</title></head>
<body>
<h1>Sign in to SynkCRM</h1>
<form method="post" action="/v1/auth/signin">
<label>Email <input type="email" name="email" required></label>
<label>Password <input type="password" name="password" required></label>
<button type="submit">Sign in</button>
</form>
</body>
</html>
`
