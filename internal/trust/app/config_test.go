package app

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("TRUST_SIGNING_SECRET", testSecret)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, "trust-core", cfg.Issuer)
	require.Equal(t, "HS256", cfg.Algorithm)
	require.Equal(t, 15*time.Minute, cfg.AccessTTL)
	require.Equal(t, 7*24*time.Hour, cfg.RefreshTTL)
	require.Equal(t, time.Hour, cfg.CSRFTTL)
	require.Equal(t, 30*24*time.Hour, cfg.AnonymousTTL)
	require.Equal(t, CSRFStoreMemory, cfg.CSRFStore)
	require.Equal(t, "trust.db", cfg.DatabaseFile)
	require.True(t, cfg.CookieSecure)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
	require.Equal(t, 10*time.Minute, cfg.HousekeepingInterval)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("TRUST_ALGORITHM", "EdDSA")
	t.Setenv("TRUST_ACCESS_TTL", "5m")
	t.Setenv("TRUST_REFRESH_TTL", "1h")
	t.Setenv("TRUST_CSRF_STORE", "redis")
	t.Setenv("TRUST_REDIS_ADDR", "cache:6379")
	t.Setenv("TRUST_COOKIE_SAMESITE", "strict")
	t.Setenv("PORT", "9090")
	t.Setenv("TRUST_PROXIES", "10.0.0.0/8,192.168.1.1")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "EdDSA", cfg.Algorithm)
	require.Equal(t, 5*time.Minute, cfg.AccessTTL)
	require.Equal(t, time.Hour, cfg.RefreshTTL)
	require.Equal(t, CSRFStoreRedis, cfg.CSRFStore)
	require.Equal(t, "cache:6379", cfg.RedisAddr)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, []string{"10.0.0.0/8", "192.168.1.1"}, cfg.TrustedProxies)

	cookies := cfg.CookieConfig()
	require.Equal(t, http.SameSiteStrictMode, cookies.SameSite)
	require.Equal(t, 5*time.Minute, cookies.AccessTTL)
	require.Equal(t, time.Hour, cookies.RefreshTTL)
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	t.Setenv("TRUST_SIGNING_SECRET", testSecret)
	t.Setenv("TRUST_ACCESS_TTL", "soon")

	_, err := LoadConfig()
	require.Error(t, err)
}

func validConfig() Config {
	return Config{
		Issuer:         "trust-test",
		Algorithm:      "HS256",
		SigningSecret:  testSecret,
		AccessTTL:      15 * time.Minute,
		RefreshTTL:     time.Hour,
		CSRFTTL:        time.Hour,
		AnonymousTTL:   time.Hour,
		CSRFStore:      CSRFStoreMemory,
		CookieSameSite: "lax",
		Port:           8080,
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"short secret", func(c *Config) { c.SigningSecret = "short" }},
		{"unknown algorithm", func(c *Config) { c.Algorithm = "RS256" }},
		{"access not shorter than refresh", func(c *Config) { c.AccessTTL = c.RefreshTTL }},
		{"zero access ttl", func(c *Config) { c.AccessTTL = 0 }},
		{"zero csrf ttl", func(c *Config) { c.CSRFTTL = 0 }},
		{"unknown csrf store", func(c *Config) { c.CSRFStore = "etcd" }},
		{"redis without addr", func(c *Config) { c.CSRFStore = "redis"; c.RedisAddr = "" }},
		{"bad samesite", func(c *Config) { c.CookieSameSite = "sometimes" }},
		{"bad port", func(c *Config) { c.Port = 70000 }},
		{"bad trusted proxy", func(c *Config) { c.TrustedProxies = []string{"proxy.local"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestValidateEdDSANeedsNoSecret(t *testing.T) {
	cfg := validConfig()
	cfg.Algorithm = "EdDSA"
	cfg.SigningSecret = ""
	require.NoError(t, cfg.Validate())
}

func TestCookieConfigSameSiteNoneForcesSecure(t *testing.T) {
	cfg := validConfig()
	cfg.CookieSameSite = "none"
	cfg.CookieSecure = false

	cookies := cfg.CookieConfig()
	require.Equal(t, http.SameSiteNoneMode, cookies.SameSite)
	require.True(t, cookies.Secure)
}
