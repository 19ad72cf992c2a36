package httpx

import "context"

type ctxKey string

const (
	CtxKeyUserID ctxKey = "user_id"
	CtxKeyEmail  ctxKey = "email"
	CtxKeyPortal ctxKey = "portal"
)

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(CtxKeyUserID).(string)
	return v, ok && v != ""
}

// EmailFromContext returns the authenticated email, if any.
func EmailFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(CtxKeyEmail).(string)
	return v, ok && v != ""
}

// PortalFromContext returns the portal resolved for the request, if any.
func PortalFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(CtxKeyPortal).(string)
	return v, ok && v != ""
}
