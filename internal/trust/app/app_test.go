package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jcarintoc/simple-applications-sub002/pkg/trustsdk"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, cfg Config) *Application {
	t.Helper()
	cfg.DatabaseFile = ":memory:"
	cfg.LogLevel = "error"

	app, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.closeStores() })
	return app
}

func readyz(t *testing.T, app *Application) (int, trustsdk.HealthResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	var body trustsdk.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return rec.Code, body
}

func TestNewWithMemoryCSRFStore(t *testing.T) {
	app := newTestApp(t, validConfig())

	code, body := readyz(t, app)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "ok", body.Status)
	require.Equal(t, "ok", body.Checks.Database)
	require.Equal(t, "ok", body.Checks.Signer)
	require.Empty(t, body.Checks.CSRFStore)
}

func TestNewWithRedisCSRFStore(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := validConfig()
	cfg.CSRFStore = CSRFStoreRedis
	cfg.RedisAddr = mr.Addr()
	app := newTestApp(t, cfg)

	code, body := readyz(t, app)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "ok", body.Checks.CSRFStore)

	mr.Close()

	code, body = readyz(t, app)
	require.Equal(t, http.StatusServiceUnavailable, code)
	require.Equal(t, "degraded", body.Status)
	require.Contains(t, body.Checks.CSRFStore, "error")
}

func TestNewFailsWhenRedisIsUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := validConfig()
	cfg.DatabaseFile = ":memory:"
	cfg.LogLevel = "error"
	cfg.CSRFStore = CSRFStoreRedis
	cfg.RedisAddr = addr

	_, err := New(cfg)
	require.Error(t, err)
}

func TestLivez(t *testing.T) {
	app := newTestApp(t, validConfig())

	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}
