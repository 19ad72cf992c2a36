package http

import (
	"errors"
	"net/http"

	"github.com/synkcrm/sessiond/internal/directory/service"
	"github.com/synkcrm/sessiond/pkg/httpx"
	"github.com/synkcrm/sessiond/pkg/sessionsdk"
	"github.com/synkcrm/sessiond/pkg/slogx"
)

// SessionHandler serves GET /v1/auth/session
type SessionHandler struct {
	IdentityService *service.IdentityService
}

// ServeHTTP godoc
//
//	@Summary		Current Session
//	@Description	Validates the caller's session token against both its signature and the
//	@Description	revocation table. Tokens close to expiry come back re-minted; callers must
//	@Description	always adopt the returned token.
//	@Tags			Auth
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	sessionsdk.SessionResponse	"session_token, token_type, expires_in, user"
//	@Failure		401	{object}	sessionsdk.ErrorResponse	"error, error_description"
//	@Failure		500	{object}	sessionsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/auth/session [get].
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token := httpx.BearerOrCookieToken(r)
	if token == "" {
		sessionsdk.ErrAPIInvalidToken.WriteError(w)
		return
	}

	result, err := h.IdentityService.SessionFromToken(ctx, token)
	if err != nil {
		if errors.Is(err, service.ErrSessionInvalid) {
			sessionsdk.ErrAPIInvalidToken.WriteError(w)
			return
		}
		log.Error("session lookup failed", "err", err)
		sessionsdk.ErrAPIServerError.WriteError(w)
		return
	}

	if result.Token != token {
		setSessionCookie(w, result)
	}
	httpx.WriteJSON(w, http.StatusOK, sessionResponse(result))
}
