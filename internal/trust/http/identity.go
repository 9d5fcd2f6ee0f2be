package http

import (
	"context"
	"net/http"

	"github.com/jcarintoc/simple-applications-sub002/internal/trust/domain"
	"github.com/jcarintoc/simple-applications-sub002/internal/trust/service"
	"github.com/jcarintoc/simple-applications-sub002/pkg/cryptox"
	"github.com/jcarintoc/simple-applications-sub002/pkg/httpx"
	"github.com/jcarintoc/simple-applications-sub002/pkg/slogx"
)

type identityKey struct{}

func contextWithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity resolved for the request. A
// request that never went through IdentityMiddleware is Unauthenticated.
func IdentityFromContext(ctx context.Context) domain.Identity {
	id, _ := ctx.Value(identityKey{}).(domain.Identity)
	return id
}

// IdentityMiddleware resolves the caller from its cookies for every request.
// Authenticated subjects are also published through httpx so the CSRF check
// and per-subject rate limits can see them.
func IdentityMiddleware(resolver *service.SessionResolver, cookies CookieConfig) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			anon := readCookie(r, cookies.AnonymousName)
			if !validAnonymousID(anon) {
				anon = ""
			}

			id := resolver.Resolve(ctx, readCookie(r, cookies.AccessName), domain.AnonymousID(anon))
			ctx = contextWithIdentity(ctx, id)
			if id.IsAuthenticated() {
				ctx = httpx.ContextWithSubject(ctx, string(id.Subject))
				ctx = slogx.With(ctx, "subject", string(id.Subject))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// EnsureOwner gives an unauthenticated caller a fresh guest id so it can own
// a cart. The id is set as a cookie and on the request identity.
func EnsureOwner(cookies CookieConfig) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := IdentityFromContext(r.Context())
			if id.State != domain.Unauthenticated {
				next.ServeHTTP(w, r)
				return
			}

			anon, err := newAnonymousID()
			if err != nil {
				slogx.FromContext(r.Context()).Error("failed to mint anonymous id", "error", err)
				httpx.WriteError(w, http.StatusInternalServerError, "server_error", "internal server error")
				return
			}
			cookies.SetAnonymous(w, anon)

			id.State = domain.Anonymous
			id.AnonymousID = anon
			next.ServeHTTP(w, r.WithContext(contextWithIdentity(r.Context(), id)))
		})
	}
}

// Guest ids are random rather than time-ordered so one cannot be guessed
// from another.
func newAnonymousID() (domain.AnonymousID, error) {
	tok, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", err
	}
	return domain.AnonymousID(tok), nil
}
