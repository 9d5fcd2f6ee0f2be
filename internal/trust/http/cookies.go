package http

import (
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/jcarintoc/simple-applications-sub002/internal/trust/domain"
)

// CookieConfig names and scopes the three session cookies.
type CookieConfig struct {
	AccessName    string
	RefreshName   string
	AnonymousName string

	// RefreshPath limits the refresh cookie to the auth endpoints.
	RefreshPath string

	Secure   bool
	SameSite http.SameSite

	AccessTTL    time.Duration
	RefreshTTL   time.Duration
	AnonymousTTL time.Duration
}

func DefaultCookieConfig() CookieConfig {
	return CookieConfig{
		AccessName:    "trust_access",
		RefreshName:   "trust_refresh",
		AnonymousName: "trust_anon",
		RefreshPath:   "/v1/auth",
		Secure:        true,
		SameSite:      http.SameSiteLaxMode,
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		AnonymousTTL:  30 * 24 * time.Hour,
	}
}

// ParseSameSite maps "lax", "strict" and "none" to their http.SameSite.
func ParseSameSite(s string) (http.SameSite, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, fmt.Errorf("unknown SameSite mode %q", s)
	}
}

// maxAge rounds up so a cookie never expires before what it carries.
func maxAge(ttl time.Duration) int {
	return int(math.Ceil(ttl.Seconds()))
}

func (c CookieConfig) cookie(name, value, path string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		MaxAge:   maxAge(ttl),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	}
}

func (c CookieConfig) expired(name, path string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	}
}

// SetTokens writes the access and refresh cookies.
func (c CookieConfig) SetTokens(w http.ResponseWriter, pair domain.TokenPair) {
	http.SetCookie(w, c.cookie(c.AccessName, pair.AccessToken, "/", c.AccessTTL))
	http.SetCookie(w, c.cookie(c.RefreshName, pair.RefreshToken, c.RefreshPath, c.RefreshTTL))
}

// ClearTokens expires the access and refresh cookies.
func (c CookieConfig) ClearTokens(w http.ResponseWriter) {
	http.SetCookie(w, c.expired(c.AccessName, "/"))
	http.SetCookie(w, c.expired(c.RefreshName, c.RefreshPath))
}

func (c CookieConfig) SetAnonymous(w http.ResponseWriter, id domain.AnonymousID) {
	http.SetCookie(w, c.cookie(c.AnonymousName, string(id), "/", c.AnonymousTTL))
}

func (c CookieConfig) ClearAnonymous(w http.ResponseWriter) {
	http.SetCookie(w, c.expired(c.AnonymousName, "/"))
}

func readCookie(r *http.Request, name string) string {
	ck, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return ck.Value
}

// maxAnonymousIDLen bounds guest ids accepted from clients.
const maxAnonymousIDLen = 128

func validAnonymousID(v string) bool {
	if v == "" || len(v) > maxAnonymousIDLen {
		return false
	}
	for _, r := range v {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
