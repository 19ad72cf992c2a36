package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/synkcrm/sessiond/internal/directory/service"
	"github.com/synkcrm/sessiond/pkg/httpx"
	"github.com/synkcrm/sessiond/pkg/sessionsdk"
	"github.com/synkcrm/sessiond/pkg/slogx"
)

// SignInHandler serves POST /v1/auth/signin
// Accepts application/x-www-form-urlencoded credentials.
type SignInHandler struct {
	IdentityService *service.IdentityService
}

// ServeHTTP godoc
//
//	@Summary		Password Sign-In
//	@Description	Exchanges email and password for a session token. The response error is
//	@Description	identical for unknown emails and wrong passwords.
//	@Tags			Auth
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			email		formData	string						true	"Account email"
//	@Param			password	formData	string						true	"Account password"
//	@Success		200			{object}	sessionsdk.SessionResponse	"session_token, token_type, expires_in, user"
//	@Failure		400			{object}	sessionsdk.ErrorResponse	"error, error_description"
//	@Failure		401			{object}	sessionsdk.ErrorResponse	"error, error_description"
//	@Failure		500			{object}	sessionsdk.ErrorResponse	"error, error_description"
//	@Header			200			{string}	Cache-Control				"no-store"
//	@Router			/v1/auth/signin [post].
func (h *SignInHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if ct := r.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		sessionsdk.ErrAPIInvalidRequest.WriteError(w)
		return
	}

	if err := r.ParseForm(); err != nil {
		sessionsdk.ErrAPIInvalidRequest.WriteError(w)
		return
	}

	email := strings.TrimSpace(r.Form.Get("email"))
	password := r.Form.Get("password")
	if email == "" || password == "" {
		sessionsdk.ErrAPIInvalidRequest.WriteError(w)
		return
	}

	result, err := h.IdentityService.SignIn(ctx, email, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			sessionsdk.ErrAPIInvalidCredentials.WriteError(w)
			return
		}
		log.Error("sign-in failed", "err", err)
		sessionsdk.ErrAPIServerError.WriteError(w)
		return
	}

	setSessionCookie(w, result)
	httpx.WriteJSON(w, http.StatusOK, sessionResponse(result))
}
