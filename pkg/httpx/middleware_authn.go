package httpx

import "net/http"

// RequireSubject rejects requests that reached it without an authenticated
// subject in their context.
func RequireSubject() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if SubjectFromContext(r.Context()) == "" {
				WriteError(w, http.StatusUnauthorized, "unauthenticated", "authentication is required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
