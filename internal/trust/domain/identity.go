package domain

import "time"

// AnonymousID scopes guest-owned resources before login.
type AnonymousID string

func (a AnonymousID) String() string { return string(a) }

// SessionState is where a request sits in the resolver state machine.
type SessionState int

const (
	Unauthenticated SessionState = iota
	Anonymous
	Authenticated
)

func (s SessionState) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Identity is the resolved actor for one request.
type Identity struct {
	State       SessionState
	Subject     Subject     // set when Authenticated
	AnonymousID AnonymousID // set when a guest cookie was presented
	ExpiresAt   time.Time   // access token expiry when Authenticated

	// TokenExpired is set when an access token was presented but had
	// expired, so the client knows to refresh rather than log in.
	TokenExpired bool
}

// IsAuthenticated reports whether a subject was proven.
func (i Identity) IsAuthenticated() bool { return i.State == Authenticated }

// Owner returns who owns resources created by this request, if anyone.
func (i Identity) Owner() (Owner, bool) {
	switch i.State {
	case Authenticated:
		return SubjectOwner(i.Subject), true
	case Anonymous:
		return AnonymousOwner(i.AnonymousID), true
	default:
		return Owner{}, false
	}
}
