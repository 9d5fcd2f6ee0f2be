package httpx

import (
	"context"
	"net/http"

	"github.com/jcarintoc/simple-applications-sub002/pkg/slogx"
)

// CSRFHeader carries the anti-forgery token on mutating requests.
const CSRFHeader = "X-CSRF-Token"

// IsSafeMethod reports whether method cannot change server state.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

// CSRFValidateFunc reports whether token is the live anti-forgery token for
// subject.
type CSRFValidateFunc func(ctx context.Context, subject, token string) bool

// RequireCSRF checks the CSRFHeader on mutating requests from authenticated
// subjects. Safe methods and anonymous requests pass through untouched. The
// rejection never says why the token was refused.
func RequireCSRF(validate CSRFValidateFunc) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := SubjectFromContext(r.Context())
			if IsSafeMethod(r.Method) || subject == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !validate(r.Context(), subject, r.Header.Get(CSRFHeader)) {
				slogx.FromContext(r.Context()).Warn("csrf check failed", "subject", subject)
				WriteError(w, http.StatusForbidden, "forbidden", "the request could not be verified")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
