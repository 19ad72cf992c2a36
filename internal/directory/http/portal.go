package http

import (
	"errors"
	"net/http"

	"github.com/synkcrm/sessiond/internal/directory/service"
	"github.com/synkcrm/sessiond/pkg/httpx"
	"github.com/synkcrm/sessiond/pkg/sessionsdk"
	"github.com/synkcrm/sessiond/pkg/slogx"
)

// PortalHandler serves GET /v1/profiles/portal
type PortalHandler struct {
	ProfileService *service.ProfileService
}

// ServeHTTP godoc
//
//	@Summary		Portal Assignment
//	@Description	Returns the raw portal value assigned to the authenticated user. The value
//	@Description	is whatever the profile stores; deciding whether it is routable is the
//	@Description	client's job.
//	@Tags			Profiles
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	sessionsdk.PortalResponse	"portal"
//	@Failure		401	{object}	sessionsdk.ErrorResponse	"error, error_description"
//	@Failure		404	{object}	sessionsdk.ErrorResponse	"error, error_description"
//	@Failure		500	{object}	sessionsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/profiles/portal [get].
func (h *PortalHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		sessionsdk.ErrAPIInvalidToken.WriteError(w)
		return
	}

	portal, err := h.ProfileService.PortalForUser(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrNoProfile) {
			(&sessionsdk.APIError{
				StatusCode:  http.StatusNotFound,
				Code:        "no_profile",
				Description: "no portal assignment exists for this user",
			}).WriteError(w)
			return
		}
		log.Error("portal lookup failed", "err", err)
		sessionsdk.ErrAPIServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, sessionsdk.PortalResponse{Portal: portal})
}
