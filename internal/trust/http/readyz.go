package http

import (
	"context"
	"net/http"
	"time"

	"github.com/jcarintoc/simple-applications-sub002/internal/trust/store"
	"github.com/jcarintoc/simple-applications-sub002/pkg/httpx"
	"github.com/jcarintoc/simple-applications-sub002/pkg/jwtx"
	"github.com/jcarintoc/simple-applications-sub002/pkg/trustsdk"
)

// Pinger is a dependency /readyz can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Checks the database, the signing keys and, when it is remote, the CSRF store.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	trustsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	trustsdk.HealthResponse	"service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	keys *jwtx.KeySet,
	csrfStore Pinger,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &trustsdk.HealthChecks{
			Database: "ok",
			Signer:   "ok",
		}
		status := "ok"
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		if keys == nil || !keys.IsReady() {
			checks.Signer = "error: no keys loaded"
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		if csrfStore != nil {
			checks.CSRFStore = "ok"
			if err := csrfStore.Ping(r.Context()); err != nil {
				checks.CSRFStore = "error: " + err.Error()
				status = "degraded"
				code = http.StatusServiceUnavailable
			}
		}

		httpx.WriteJSON(w, code, trustsdk.HealthResponse{
			Status:  status,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
