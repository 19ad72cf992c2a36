package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/synkcrm/sessiond/internal/directory/service"
	"github.com/synkcrm/sessiond/internal/directory/store"
	"github.com/synkcrm/sessiond/pkg/httpx"
	"github.com/synkcrm/sessiond/pkg/jwtx"
	"github.com/synkcrm/sessiond/pkg/slogx"

	_ "github.com/synkcrm/sessiond/api/session" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store           store.Store
	IdentityService *service.IdentityService
	ProfileService  *service.ProfileService
	Events          *service.EventHub
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerProfiles()
	r.registerShells()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			SynkCRM Identity Directory API
//	@version		0.1.0
//	@description	Identity directory for the SynkCRM portals: password sign-in, revocable
//	@description	session tokens, profile portal lookups, and a session change event stream.
//
//	@contact.name	SynkCRM Team
//	@contact.url	https://github.com/synkcrm/sessiond
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /signin - strict rate limit by IP + email form field to slow
	// credential stuffing against a single account
	signinHandler := &SignInHandler{IdentityService: r.IdentityService}
	r.Mux.Handle("POST /v1/auth/signin",
		httpx.Chain(signinHandler,
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "email"),
		),
	)

	// GET /session - validates and possibly re-mints the caller's token
	sessionHandler := &SessionHandler{IdentityService: r.IdentityService}
	r.Mux.Handle("GET /v1/auth/session",
		httpx.Chain(sessionHandler,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	// POST /signout - always 204, moderate limit
	signoutHandler := &SignOutHandler{IdentityService: r.IdentityService}
	r.Mux.Handle("POST /v1/auth/signout",
		httpx.Chain(signoutHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// GET /events - websocket session change stream
	eventsHandler := &EventsHandler{Events: r.Events, Logger: r.logger}
	r.Mux.Handle("GET /v1/auth/events",
		httpx.Chain(eventsHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerProfiles() {
	h := &PortalHandler{ProfileService: r.ProfileService}

	secured := httpx.Chain(h,
		httpx.AuthnMiddleware(r.verifier),
		httpx.RateLimitByUser(httpx.LenientLimit),
	)

	r.Mux.Handle("GET /v1/profiles/portal", secured)
}

func (r *Router) registerShells() {
	shells := &ShellHandler{
		IdentityService: r.IdentityService,
		ProfileService:  r.ProfileService,
	}

	r.Mux.Handle("GET /admin", shells.Portal("admin"))
	r.Mux.Handle("GET /partner", shells.Portal("partner"))
	r.Mux.Handle("GET /login", http.HandlerFunc(shells.Login))
	r.Mux.Handle("GET /logout", http.HandlerFunc(shells.Logout))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.verifier),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
