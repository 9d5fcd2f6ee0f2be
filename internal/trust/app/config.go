package app

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	trusthttp "github.com/jcarintoc/simple-applications-sub002/internal/trust/http"
	"github.com/jcarintoc/simple-applications-sub002/pkg/httpx"
	"github.com/jcarintoc/simple-applications-sub002/pkg/jwtx"
)

// CSRF store backends.
const (
	CSRFStoreMemory = "memory"
	CSRFStoreRedis  = "redis"
)

// minSecretLength is the shortest HS256 secret accepted (256 bits).
const minSecretLength = 32

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Issuer         string `env:"TRUST_ISSUER" envDefault:"trust-core"`
	Algorithm      string `env:"TRUST_ALGORITHM" envDefault:"HS256"` // HS256 or EdDSA
	SigningSecret  string `env:"TRUST_SIGNING_SECRET"`               // Required for HS256
	SigningKeyFile string `env:"TRUST_SIGNING_KEY_FILE"`             // Optional EdDSA PEM; ephemeral when empty

	AccessTTL    time.Duration `env:"TRUST_ACCESS_TTL" envDefault:"15m"`
	RefreshTTL   time.Duration `env:"TRUST_REFRESH_TTL" envDefault:"168h"`
	CSRFTTL      time.Duration `env:"TRUST_CSRF_TTL" envDefault:"1h"`
	AnonymousTTL time.Duration `env:"TRUST_ANONYMOUS_TTL" envDefault:"720h"`

	CSRFStore string `env:"TRUST_CSRF_STORE" envDefault:"memory"` // memory or redis
	RedisAddr string `env:"TRUST_REDIS_ADDR" envDefault:"localhost:6379"`

	DatabaseFile   string `env:"TRUST_DATABASE_FILE" envDefault:"trust.db"`
	CookieSecure   bool   `env:"TRUST_COOKIE_SECURE" envDefault:"true"`
	CookieSameSite string `env:"TRUST_COOKIE_SAMESITE" envDefault:"lax"`
	Pepper         string `env:"TRUST_PEPPER"`

	// Addresses or CIDRs allowed to set X-Forwarded-For and X-Real-IP.
	TrustedProxies []string `env:"TRUST_PROXIES" envSeparator:","`

	Env                  string        `env:"ENV" envDefault:"dev"`
	LogLevel             string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat            string        `env:"LOG_FORMAT" envDefault:"json"`
	Port                 int           `env:"PORT" envDefault:"8080"`
	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"10m"`
}

// LoadConfig reads the environment and validates the result.
func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c Config) Validate() error {
	var errs []error

	switch c.Algorithm {
	case jwtx.AlgorithmHS256:
		if len(c.SigningSecret) < minSecretLength {
			errs = append(errs, fmt.Errorf("TRUST_SIGNING_SECRET must be at least %d bytes for HS256", minSecretLength))
		}
	case jwtx.AlgorithmEdDSA:
	default:
		errs = append(errs, fmt.Errorf("TRUST_ALGORITHM %q is not one of HS256, EdDSA", c.Algorithm))
	}

	if c.AccessTTL <= 0 {
		errs = append(errs, errors.New("TRUST_ACCESS_TTL must be positive"))
	}
	if c.AccessTTL >= c.RefreshTTL {
		errs = append(errs, errors.New("TRUST_ACCESS_TTL must be shorter than TRUST_REFRESH_TTL"))
	}
	if c.CSRFTTL <= 0 {
		errs = append(errs, errors.New("TRUST_CSRF_TTL must be positive"))
	}

	switch strings.ToLower(c.CSRFStore) {
	case CSRFStoreMemory:
	case CSRFStoreRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("TRUST_REDIS_ADDR is required for the redis csrf store"))
		}
	default:
		errs = append(errs, fmt.Errorf("TRUST_CSRF_STORE %q is not one of memory, redis", c.CSRFStore))
	}

	if _, err := trusthttp.ParseSameSite(c.CookieSameSite); err != nil {
		errs = append(errs, err)
	}

	if _, err := httpx.ParseTrustedProxies(c.TrustedProxies); err != nil {
		errs = append(errs, fmt.Errorf("TRUST_PROXIES: %w", err))
	}

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d is out of range", c.Port))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// CookieConfig derives the session cookie settings.
func (c Config) CookieConfig() trusthttp.CookieConfig {
	cookies := trusthttp.DefaultCookieConfig()
	cookies.Secure = c.CookieSecure
	if ss, err := trusthttp.ParseSameSite(c.CookieSameSite); err == nil {
		cookies.SameSite = ss
	}
	// Browsers refuse SameSite=None without Secure.
	if cookies.SameSite == http.SameSiteNoneMode {
		cookies.Secure = true
	}
	cookies.AccessTTL = c.AccessTTL
	cookies.RefreshTTL = c.RefreshTTL
	cookies.AnonymousTTL = c.AnonymousTTL
	return cookies
}
