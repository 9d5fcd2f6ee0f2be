package domain

import "time"

// Subject identifies an authenticated principal. Numeric ids from other
// systems are carried as their decimal string.
type Subject string

func (s Subject) String() string { return string(s) }

// TokenPair is what login, register and refresh hand back: a short-lived
// access token and a long-lived refresh token, both self-contained.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}
