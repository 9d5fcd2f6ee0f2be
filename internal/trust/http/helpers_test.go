package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	trusthttp "github.com/jcarintoc/simple-applications-sub002/internal/trust/http"
	"github.com/jcarintoc/simple-applications-sub002/internal/trust/service"
	"github.com/jcarintoc/simple-applications-sub002/internal/trust/store/drivers/memory"
	"github.com/jcarintoc/simple-applications-sub002/internal/trust/store/drivers/sqlite"
	"github.com/jcarintoc/simple-applications-sub002/pkg/httpx"
	"github.com/jcarintoc/simple-applications-sub002/pkg/jwtx"
	"github.com/jcarintoc/simple-applications-sub002/pkg/slogx"
	"github.com/jcarintoc/simple-applications-sub002/pkg/trustsdk"
	"github.com/stretchr/testify/require"
)

const testPassword = "correct-horse-battery"

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	srv     *httptest.Server
	clock   *fakeClock
	cookies trusthttp.CookieConfig
	users   *service.UserService
}

var generous = httpx.RateLimitConfig{RequestsPerWindow: 10000, Window: time.Minute, Burst: 10000}

func newTestEnv(t *testing.T, opts ...trusthttp.RouterOption) *testEnv {
	t.Helper()

	clock := &fakeClock{now: time.Now().UTC().Truncate(time.Second)}

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	km, err := jwtx.NewEphemeralKeyManager(jwtx.AlgorithmHS256)
	require.NoError(t, err)
	codec, err := km.NewCodec("trust-test", jwtx.WithClock(clock.Now))
	require.NoError(t, err)

	cookies := trusthttp.DefaultCookieConfig()
	cookies.Secure = false // httptest serves plain http

	tokens, err := service.NewTokenService(codec, cookies.AccessTTL, cookies.RefreshTTL)
	require.NoError(t, err)

	guard := service.NewCSRFGuard(memory.NewCSRFStore(), time.Hour)
	guard.Now = clock.Now
	users := &service.UserService{Store: st}

	opts = append([]trusthttp.RouterOption{
		trusthttp.WithCookieConfig(cookies),
		trusthttp.WithRateLimits(generous, generous),
	}, opts...)

	router := trusthttp.NewRouter(km.KeySet, "test", st, slogx.Discard(), opts...)
	router.Resolver = &service.SessionResolver{
		Tokens:      tokens,
		CSRF:        guard,
		Migrator:    service.NewIdentityMigrator(st),
		Credentials: users,
		Registrar:   users,
	}
	router.CSRFGuard = guard
	router.UserService = users
	router.CartService = &service.CartService{Store: st}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testEnv{srv: srv, clock: clock, cookies: cookies, users: users}
}

// browser is a cookie-keeping client.
type browser struct {
	t   *testing.T
	env *testEnv
	hc  *http.Client
}

func (e *testEnv) browser(t *testing.T) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{t: t, env: e, hc: &http.Client{Jar: jar}}
}

func (b *browser) do(method, path string, body any, headers map[string]string) *http.Response {
	b.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(b.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequestWithContext(context.Background(), method, b.env.srv.URL+path, &buf)
	require.NoError(b.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := b.hc.Do(req)
	require.NoError(b.t, err)
	b.t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (b *browser) cookie(name string) string {
	u, _ := url.Parse(b.env.srv.URL + "/v1/auth/")
	for _, c := range b.hc.Jar.Cookies(u) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func requireAPIError(t *testing.T, resp *http.Response, want *trustsdk.APIError) {
	t.Helper()
	require.Equal(t, want.StatusCode, resp.StatusCode)
	body := decode[httpx.ErrorBody](t, resp)
	require.Equal(t, want.Code, body.Error)
}

func (b *browser) register(username string) trustsdk.SessionResponse {
	b.t.Helper()
	resp := b.do(http.MethodPost, "/v1/auth/register", trustsdk.Credentials{Username: username, Password: testPassword}, nil)
	require.Equal(b.t, http.StatusCreated, resp.StatusCode)
	return decode[trustsdk.SessionResponse](b.t, resp)
}

func (b *browser) login(username string) trustsdk.SessionResponse {
	b.t.Helper()
	resp := b.do(http.MethodPost, "/v1/auth/login", trustsdk.Credentials{Username: username, Password: testPassword}, nil)
	require.Equal(b.t, http.StatusOK, resp.StatusCode)
	return decode[trustsdk.SessionResponse](b.t, resp)
}

func (b *browser) csrf() string {
	b.t.Helper()
	resp := b.do(http.MethodGet, "/v1/auth/csrf", nil, nil)
	require.Equal(b.t, http.StatusOK, resp.StatusCode)
	return decode[trustsdk.CSRFTokenResponse](b.t, resp).CSRFToken
}

func (b *browser) cart() map[string]int {
	b.t.Helper()
	resp := b.do(http.MethodGet, "/v1/cart", nil, nil)
	require.Equal(b.t, http.StatusOK, resp.StatusCode)
	out := map[string]int{}
	for _, it := range decode[trustsdk.CartResponse](b.t, resp).Items {
		out[it.ProductID] = it.Quantity
	}
	return out
}

func (b *browser) me() trustsdk.IdentityResponse {
	b.t.Helper()
	resp := b.do(http.MethodGet, "/v1/auth/me", nil, nil)
	require.Equal(b.t, http.StatusOK, resp.StatusCode)
	return decode[trustsdk.IdentityResponse](b.t, resp)
}

func csrfHeader(tok string) map[string]string {
	return map[string]string{httpx.CSRFHeader: tok}
}

func jsonBody(s string) *strings.Reader {
	return strings.NewReader(s)
}

// decodeSession is safe to call off the test goroutine.
func decodeSession(resp *http.Response) trustsdk.SessionResponse {
	var v trustsdk.SessionResponse
	_ = json.NewDecoder(resp.Body).Decode(&v)
	return v
}
