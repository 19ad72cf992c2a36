package http

import (
	"net/http"
	"time"

	"github.com/synkcrm/sessiond/internal/directory/domain"
	"github.com/synkcrm/sessiond/internal/directory/service"
	"github.com/synkcrm/sessiond/pkg/httpx"
	"github.com/synkcrm/sessiond/pkg/sessionsdk"
)

func userPayload(u domain.User) sessionsdk.UserPayload {
	return sessionsdk.UserPayload{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		AvatarURL: u.AvatarURL,
		LastLogin: u.LastLoginAt,
	}
}

func sessionResponse(result service.SignInResult) sessionsdk.SessionResponse {
	return sessionsdk.SessionResponse{
		SessionToken: result.Token,
		TokenType:    "Bearer",
		ExpiresIn:    int(time.Until(result.ExpiresAt).Seconds()),
		User:         userPayload(result.User),
	}
}

// setSessionCookie mirrors the token into a cookie so the portal shells work
// without a bearer header. API clients can ignore it.
func setSessionCookie(w http.ResponseWriter, result service.SignInResult) {
	http.SetCookie(w, &http.Cookie{
		Name:     httpx.SessionCookieName,
		Value:    result.Token,
		Path:     "/",
		Expires:  result.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     httpx.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
