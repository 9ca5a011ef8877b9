package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/gymgate/internal/auth/guard"
	"github.com/aussiebroadwan/gymgate/internal/auth/identity"
	"github.com/aussiebroadwan/gymgate/internal/auth/service"
	"github.com/aussiebroadwan/gymgate/internal/auth/store"
	"github.com/aussiebroadwan/gymgate/pkg/httpx"
	"github.com/aussiebroadwan/gymgate/pkg/jwtx"
	"github.com/aussiebroadwan/gymgate/pkg/slogx"

	_ "github.com/aussiebroadwan/gymgate/api/gymgate" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux *http.ServeMux

	keys         *jwtx.KeyManager
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	InviteService  *service.InviteService
	LinkerService  *service.LinkerService
	SessionService *service.SessionService
	AccountService *service.AccountService
	Providers      *identity.Registry

	// Rules is the perimeter applied to every request.
	Rules              guard.Table
	CookieSecure       bool
	DefaultInviteHours int

	handler http.Handler
}

func NewRouter(
	keys *jwtx.KeyManager,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	return &Router{
		Mux:                http.NewServeMux(),
		keys:               keys,
		buildVersion:       buildVersion,
		startTime:          time.Now(),
		store:              st,
		logger:             logger,
		Rules:              guard.DefaultRules,
		DefaultInviteHours: service.DefaultInviteHours,
		Providers:          identity.NewRegistry(),
	}
}

// ApplyRoutes registers every route and freezes the middleware chain. Call it
// once after the services are set.
func (r *Router) ApplyRoutes() {
	r.registerPages()
	r.registerSignIn()
	r.registerSession()
	r.registerInvites()
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())

	// Logging wraps the session decode, which the guard reads.
	r.handler = httpx.Chain(r.Mux,
		slogx.HTTPMiddleware(r.logger),
		httpx.SessionMiddleware(r.keys.Verifier),
		guard.Middleware(r.Rules),
	)
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title						gymgate API
//	@version					0.1.0
//	@description				Invite-gated sign-in and role authorization for the gym app.
//	@description
//	@description				Sessions are EdDSA-signed JWTs carried in the gymgate.session cookie or as a Bearer token. Verification keys are published at /.well-known/jwks.json.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/gymgate
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	SessionCookie
//	@in							cookie
//	@name						gymgate.session
//	@description				Session token set by the sign-in callback.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

func (r *Router) ownerOnly() []httpx.Middleware {
	return []httpx.Middleware{
		guard.RequireOwnerAPI(),
		httpx.RateLimitBySubject(httpx.ModerateLimit),
	}
}

// ownerMutation re-reads the caller's role before letting a write through.
func (r *Router) ownerMutation() []httpx.Middleware {
	return []httpx.Middleware{
		guard.RequireOwnerAPI(),
		guard.RequireOwnerAuthoritative(r.AccountService.RoleOf),
		httpx.RateLimitBySubject(httpx.ModerateLimit),
	}
}

func (r *Router) registerPages() {
	h := &PagesHandler{Providers: r.Providers, CookieSecure: r.CookieSecure}

	r.Mux.Handle("GET /entry", httpx.Chain(http.HandlerFunc(h.HandleEntry),
		httpx.RateLimitByIP(httpx.PublicLimit),
	))
	// POST /entry - strict, every submit starts an OAuth round trip
	r.Mux.Handle("POST /entry", httpx.Chain(http.HandlerFunc(h.HandleEntrySubmit),
		httpx.RateLimitByIP(httpx.StrictLimit),
	))
	r.Mux.Handle("GET /signin", httpx.Chain(http.HandlerFunc(h.HandleSignIn),
		httpx.RateLimitByIP(httpx.PublicLimit),
	))
	r.Mux.Handle("GET /login", httpx.Chain(http.HandlerFunc(h.HandleSignIn),
		httpx.RateLimitByIP(httpx.PublicLimit),
	))
	r.Mux.Handle("GET /unauthorized", http.HandlerFunc(h.HandleUnauthorized))

	r.Mux.Handle("GET /{$}", httpx.Chain(http.HandlerFunc(h.HandleHome),
		guard.RequireLogin(),
	))
	r.Mux.Handle("GET /admin", httpx.Chain(h.HandleDashboard("Admin"),
		guard.RequireAdmin(),
	))
	r.Mux.Handle("GET /owner", httpx.Chain(h.HandleDashboard("Owner"),
		guard.RequireOwner(),
	))
}

func (r *Router) registerSignIn() {
	h := &OAuthHandler{
		Providers:    r.Providers,
		Linker:       r.LinkerService,
		Sessions:     r.SessionService,
		CookieSecure: r.CookieSecure,
	}
	s := &SessionHandler{Sessions: r.SessionService, CookieSecure: r.CookieSecure}

	r.Mux.Handle("GET /auth/{provider}", httpx.Chain(http.HandlerFunc(h.HandleStart),
		httpx.RateLimitByIP(httpx.ModerateLimit),
	))
	// Callback - strict by IP, this is where invite codes get spent
	r.Mux.Handle("GET /auth/{provider}/callback", httpx.Chain(http.HandlerFunc(h.HandleCallback),
		httpx.RateLimitByIP(httpx.StrictLimit),
	))
	r.Mux.Handle("POST /auth/signout", http.HandlerFunc(s.HandleSignOut))
}

func (r *Router) registerSession() {
	h := &SessionHandler{Sessions: r.SessionService, CookieSecure: r.CookieSecure}

	r.Mux.Handle("GET /api/session", httpx.Chain(http.HandlerFunc(h.HandleGet),
		guard.RequireLoginAPI(),
		httpx.RateLimitBySubject(httpx.PublicLimit),
	))
	r.Mux.Handle("POST /api/session/refresh", httpx.Chain(http.HandlerFunc(h.HandleRefresh),
		httpx.RateLimitByIP(httpx.ModerateLimit),
	))
}

func (r *Router) registerInvites() {
	h := &InvitesHandler{Invites: r.InviteService, DefaultHours: r.DefaultInviteHours}

	r.Mux.Handle("POST /api/invites/generate", httpx.Chain(http.HandlerFunc(h.HandleGenerate), r.ownerMutation()...))
	r.Mux.Handle("GET /api/invites", httpx.Chain(http.HandlerFunc(h.HandleList), r.ownerOnly()...))
}

func (r *Router) registerUsers() {
	h := &UsersHandler{Accounts: r.AccountService}

	r.Mux.Handle("GET /api/users", httpx.Chain(http.HandlerFunc(h.HandleList), r.ownerOnly()...))
	r.Mux.Handle("POST /api/users", httpx.Chain(http.HandlerFunc(h.HandleCreate), r.ownerMutation()...))
	r.Mux.Handle("PATCH /api/users/{id}", httpx.Chain(http.HandlerFunc(h.HandleUpdateRole), r.ownerMutation()...))
	r.Mux.Handle("DELETE /api/users/{email}", httpx.Chain(http.HandlerFunc(h.HandleDelete), r.ownerMutation()...))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys.KeySet),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}
