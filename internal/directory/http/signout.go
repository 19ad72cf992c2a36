package http

import (
	"net/http"

	"github.com/synkcrm/sessiond/internal/directory/service"
	"github.com/synkcrm/sessiond/pkg/httpx"
	"github.com/synkcrm/sessiond/pkg/slogx"
)

// SignOutHandler serves POST /v1/auth/signout
type SignOutHandler struct {
	IdentityService *service.IdentityService
}

// ServeHTTP godoc
//
//	@Summary		Sign Out
//	@Description	Revokes the session behind the caller's token. Always answers 204, even
//	@Description	when no valid session was presented.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Success		204	"no content"
//	@Router			/v1/auth/signout [post].
func (h *SignOutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token := httpx.BearerOrCookieToken(r)
	if err := h.IdentityService.SignOut(ctx, token); err != nil {
		// Revocation failures are logged but not surfaced: the caller's
		// contract is that sign-out never fails.
		log.Error("sign-out revocation failed", "err", err)
	}

	clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
