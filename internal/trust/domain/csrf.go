package domain

import "time"

// CSRFRecord is the single live anti-forgery token of a subject. Only the
// fingerprint of the token is kept.
type CSRFRecord struct {
	Subject   Subject
	TokenHash string
	ExpiresAt time.Time
}

// Expired reports whether the record is no longer valid at now. A record is
// still valid at exactly ExpiresAt.
func (r CSRFRecord) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
