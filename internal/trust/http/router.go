package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	_ "github.com/jcarintoc/simple-applications-sub002/api/trust" // Swagger docs
	"github.com/jcarintoc/simple-applications-sub002/internal/trust/domain"
	"github.com/jcarintoc/simple-applications-sub002/internal/trust/service"
	"github.com/jcarintoc/simple-applications-sub002/internal/trust/store"
	"github.com/jcarintoc/simple-applications-sub002/pkg/httpx"
	"github.com/jcarintoc/simple-applications-sub002/pkg/jwtx"
	"github.com/jcarintoc/simple-applications-sub002/pkg/slogx"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware
	handler     http.Handler
	once        sync.Once

	keys         *jwtx.KeySet
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store
	csrfStore    Pinger

	cookies       CookieConfig
	strictLimit   httpx.RateLimitConfig
	moderateLimit httpx.RateLimitConfig

	Resolver    *service.SessionResolver
	CSRFGuard   *service.CSRFGuard
	UserService *service.UserService
	CartService *service.CartService
}

type RouterOption func(*Router)

func WithCookieConfig(c CookieConfig) RouterOption {
	return func(r *Router) { r.cookies = c }
}

// WithRateLimits replaces the strict (login, register) and moderate
// (everything else) profiles.
func WithRateLimits(strict, moderate httpx.RateLimitConfig) RouterOption {
	return func(r *Router) {
		r.strictLimit = strict
		r.moderateLimit = moderate
	}
}

// WithCSRFStoreCheck adds the CSRF store to /readyz.
func WithCSRFStoreCheck(p Pinger) RouterOption {
	return func(r *Router) { r.csrfStore = p }
}

func NewRouter(
	keys *jwtx.KeySet,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	opts ...RouterOption,
) *Router {
	r := &Router{
		Mux:           http.NewServeMux(),
		keys:          keys,
		buildVersion:  buildVersion,
		startTime:     time.Now(),
		store:         st,
		logger:        logger,
		cookies:       DefaultCookieConfig(),
		strictLimit:   httpx.StrictLimit,
		moderateLimit: httpx.ModerateLimit,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ApplyRoutes registers every route. Services must be set first.
func (r *Router) ApplyRoutes() {
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		IdentityMiddleware(r.Resolver, r.cookies),
	}

	r.registerAuth()
	r.registerCart()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Trust Core API
//	@version		0.1.0
//	@description	Session, token and CSRF service for the demo applications.
//	@description
//	@description	Access and refresh tokens travel in HttpOnly cookies. Mutating requests from a
//	@description	signed-in caller must echo the token from GET /v1/auth/csrf in X-CSRF-Token.
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.once.Do(func() {
		r.handler = httpx.Chain(r.Mux, r.middlewares...)
	})
	r.handler.ServeHTTP(w, req)
}

func (r *Router) validateCSRF(ctx context.Context, subject, token string) bool {
	return r.CSRFGuard.Validate(ctx, domain.Subject(subject), token)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		Resolver: r.Resolver,
		CSRF:     r.CSRFGuard,
		Users:    r.UserService,
		Cookies:  r.cookies,
	}

	// Credential endpoints are limited by IP and username against guessing.
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIPAndJSONField(r.strictLimit, "username"),
		),
	)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndJSONField(r.strictLimit, "username"),
		),
	)

	r.Mux.Handle("POST /v1/auth/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(r.moderateLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitBySubject(r.moderateLimit),
			httpx.RequireCSRF(r.validateCSRF),
		),
	)

	r.Mux.Handle("GET /v1/auth/me",
		httpx.Chain(http.HandlerFunc(h.HandleMe),
			httpx.RateLimitBySubject(r.moderateLimit),
		),
	)
	r.Mux.Handle("GET /v1/auth/csrf",
		httpx.Chain(http.HandlerFunc(h.HandleCSRF),
			httpx.RequireSubject(),
			httpx.RateLimitBySubject(r.moderateLimit),
		),
	)
}

func (r *Router) registerCart() {
	h := &CartHandler{Carts: r.CartService}

	r.Mux.Handle("GET /v1/cart",
		httpx.Chain(http.HandlerFunc(h.HandleList),
			httpx.RateLimitBySubject(r.moderateLimit),
		),
	)
	r.Mux.Handle("POST /v1/cart/items",
		httpx.Chain(http.HandlerFunc(h.HandleAdd),
			httpx.RateLimitBySubject(r.moderateLimit),
			httpx.RequireCSRF(r.validateCSRF),
			EnsureOwner(r.cookies),
		),
	)
	r.Mux.Handle("DELETE /v1/cart/items/{productID}",
		httpx.Chain(http.HandlerFunc(h.HandleRemove),
			httpx.RateLimitBySubject(r.moderateLimit),
			httpx.RequireCSRF(r.validateCSRF),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys, r.csrfStore))
}
