package http_test

import (
	"net/http"
	"testing"
	"time"

	trusthttp "github.com/jcarintoc/simple-applications-sub002/internal/trust/http"
	"github.com/jcarintoc/simple-applications-sub002/pkg/trustsdk"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndMe(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser(t)

	require.Equal(t, "unauthenticated", b.me().State)

	sess := b.register("alice")
	require.NotEmpty(t, sess.Subject)
	require.True(t, sess.AccessExpiresAt.Before(sess.RefreshExpiresAt))
	require.NotEmpty(t, b.cookie(env.cookies.RefreshName))

	me := b.me()
	require.Equal(t, "authenticated", me.State)
	require.Equal(t, sess.Subject, me.Subject)
	require.Equal(t, "alice", me.Username)
	require.NotNil(t, me.ExpiresAt)

	other := env.browser(t)
	resp := other.do(http.MethodPost, "/v1/auth/register", trustsdk.Credentials{Username: "ALICE", Password: testPassword}, nil)
	requireAPIError(t, resp, trustsdk.ErrUsernameTaken)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser(t)

	resp := b.do(http.MethodPost, "/v1/auth/register", trustsdk.Credentials{Username: "x", Password: testPassword}, nil)
	requireAPIError(t, resp, trustsdk.ErrInvalidRequest)

	resp = b.do(http.MethodPost, "/v1/auth/register", map[string]string{"username": "alice", "password": testPassword, "extra": "x"}, nil)
	requireAPIError(t, resp, trustsdk.ErrInvalidRequest)
}

func TestLoginFailures(t *testing.T) {
	env := newTestEnv(t)
	env.browser(t).register("alice")
	b := env.browser(t)

	resp := b.do(http.MethodPost, "/v1/auth/login", trustsdk.Credentials{Username: "alice", Password: "wrong-password"}, nil)
	requireAPIError(t, resp, trustsdk.ErrInvalidCredentials)

	resp = b.do(http.MethodPost, "/v1/auth/login", trustsdk.Credentials{Username: "nobody", Password: testPassword}, nil)
	requireAPIError(t, resp, trustsdk.ErrInvalidCredentials)

	require.Empty(t, b.cookie(env.cookies.RefreshName))
}

func TestLoginRateLimited(t *testing.T) {
	strict := generous
	strict.RequestsPerWindow, strict.Burst = 2, 2
	env := newTestEnv(t, trusthttp.WithRateLimits(strict, generous))
	b := env.browser(t)

	creds := trustsdk.Credentials{Username: "alice", Password: "whatever-pass"}
	for i := 0; i < 2; i++ {
		resp := b.do(http.MethodPost, "/v1/auth/login", creds, nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
	resp := b.do(http.MethodPost, "/v1/auth/login", creds, nil)
	requireAPIError(t, resp, trustsdk.ErrRateLimited)
	require.NotEmpty(t, resp.Header.Get("Retry-After"))
}

func TestRefreshRotatesCookies(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser(t)
	b.register("alice")

	oldRefresh := b.cookie(env.cookies.RefreshName)
	env.clock.Advance(time.Second)

	resp := b.do(http.MethodPost, "/v1/auth/refresh", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sess := decode[trustsdk.SessionResponse](t, resp)
	require.NotEmpty(t, sess.Subject)
	require.NotEqual(t, oldRefresh, b.cookie(env.cookies.RefreshName))
}

func TestRefreshWithoutCookie(t *testing.T) {
	env := newTestEnv(t)
	resp := env.browser(t).do(http.MethodPost, "/v1/auth/refresh", nil, nil)
	requireAPIError(t, resp, trustsdk.ErrInvalidRefreshToken)
}

func TestExpiredRefreshClearsCookies(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser(t)
	b.register("alice")

	env.clock.Advance(env.cookies.RefreshTTL + time.Minute)
	resp := b.do(http.MethodPost, "/v1/auth/refresh", nil, nil)
	requireAPIError(t, resp, trustsdk.ErrInvalidRefreshToken)

	require.Empty(t, b.cookie(env.cookies.RefreshName))
	require.Empty(t, b.cookie(env.cookies.AccessName))
}

func TestScenarioRefreshAfterAccessExpiry(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser(t)
	sess := b.register("alice")

	env.clock.Advance(env.cookies.AccessTTL + time.Minute)
	me := b.me()
	require.Equal(t, "unauthenticated", me.State)
	require.True(t, me.TokenExpired)

	resp := b.do(http.MethodPost, "/v1/auth/refresh", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	me = b.me()
	require.Equal(t, "authenticated", me.State)
	require.Equal(t, sess.Subject, me.Subject)
}

func TestCSRFEndpointRequiresSession(t *testing.T) {
	env := newTestEnv(t)
	resp := env.browser(t).do(http.MethodGet, "/v1/auth/csrf", nil, nil)
	requireAPIError(t, resp, trustsdk.ErrUnauthenticated)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser(t)
	b.register("alice")

	resp := b.do(http.MethodPost, "/v1/auth/logout", nil, nil)
	requireAPIError(t, resp, trustsdk.ErrForbidden)
	require.Equal(t, "authenticated", b.me().State)

	tok := b.csrf()
	resp = b.do(http.MethodPost, "/v1/auth/logout", nil, csrfHeader(tok))
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, "unauthenticated", b.me().State)
	require.Empty(t, b.cookie(env.cookies.RefreshName))

	// Logging out without a session is harmless.
	resp = b.do(http.MethodPost, "/v1/auth/logout", nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	b := env.browser(t)

	resp := b.do(http.MethodGet, "/livez", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", decode[trustsdk.HealthResponse](t, resp).Status)

	resp = b.do(http.MethodGet, "/readyz", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	health := decode[trustsdk.HealthResponse](t, resp)
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "ok", health.Checks.Database)
	require.Equal(t, "ok", health.Checks.Signer)
	require.Empty(t, health.Checks.CSRFStore)

	resp = b.do(http.MethodGet, "/livez", nil, nil)
	require.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
