package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/northbndlabs/gatekeeper/internal/auth/service"
	"github.com/northbndlabs/gatekeeper/internal/auth/store"
	"github.com/northbndlabs/gatekeeper/pkg/httpx"
	"github.com/northbndlabs/gatekeeper/pkg/jwtx"
	"github.com/northbndlabs/gatekeeper/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store            store.Store
	AuthService      *service.AuthService
	RefreshService   *service.RefreshService
	TwoFactorService *service.TwoFactorService
	UserService      *service.UserService
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
	r.registerTwoFactor()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	login := &LoginHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /v1/auth/login", login)

	whoami := &WhoAmIHandler{UserService: r.UserService}
	r.Mux.Handle("GET /v1/auth/whoami",
		httpx.Chain(whoami, httpx.AuthnMiddleware(r.verifier)),
	)

	// Refresh endpoints authenticate with the refresh token in the body,
	// not a bearer header, so no authn middleware here.
	refresh := &RefreshHandler{RefreshService: r.RefreshService}
	r.Mux.Handle("POST /v1/auth/refresh", http.HandlerFunc(refresh.HandleRefresh))
	r.Mux.Handle("DELETE /v1/auth/refresh", http.HandlerFunc(refresh.HandleRevoke))
}

func (r *Router) registerTwoFactor() {
	h := &TwoFactorHandler{
		TwoFactorService: r.TwoFactorService,
		UserService:      r.UserService,
	}
	authn := httpx.AuthnMiddleware(r.verifier)

	r.Mux.Handle("POST /v1/2fa/enroll", httpx.Chain(http.HandlerFunc(h.HandleEnroll), authn))
	r.Mux.Handle("GET /v1/2fa/uri", httpx.Chain(http.HandlerFunc(h.HandleURI), authn))
	r.Mux.Handle("POST /v1/2fa/activate", httpx.Chain(http.HandlerFunc(h.HandleActivate), authn))
	r.Mux.Handle("DELETE /v1/2fa", httpx.Chain(http.HandlerFunc(h.HandleDeactivate), authn))
	r.Mux.Handle("DELETE /v1/2fa/{username}", httpx.Chain(http.HandlerFunc(h.HandleAdminReset), authn))
	r.Mux.Handle("PUT /v1/2fa/{username}", httpx.Chain(http.HandlerFunc(h.HandleForceEnable), authn))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
