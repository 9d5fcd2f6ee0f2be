package http

import (
	"errors"
	"net/http"

	"github.com/jcarintoc/simple-applications-sub002/internal/trust/service"
	"github.com/jcarintoc/simple-applications-sub002/internal/trust/store"
	"github.com/jcarintoc/simple-applications-sub002/pkg/slogx"
	"github.com/jcarintoc/simple-applications-sub002/pkg/trustsdk"
)

// writeServiceError maps a service error onto its API error. Validation
// messages are passed through; anything unknown is a logged 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		trustsdk.NewAPIError(http.StatusBadRequest, trustsdk.ErrorCodeInvalidRequest, err.Error()).WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		trustsdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrInvalidRefresh):
		trustsdk.ErrInvalidRefreshToken.WriteError(w)
	case errors.Is(err, service.ErrUsernameTaken):
		trustsdk.ErrUsernameTaken.WriteError(w)
	case errors.Is(err, service.ErrForbidden):
		trustsdk.ErrForbidden.WriteError(w)
	case errors.Is(err, store.ErrNotFound):
		trustsdk.ErrNotFound.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", "error", err)
		trustsdk.ErrServerError.WriteError(w)
	}
}
