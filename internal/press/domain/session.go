package domain

import "time"

// Session is a server-side login session. The opaque token handed to the
// client is never stored; only its fingerprint is.
type Session struct {
	ID        string // ULID
	UserID    int64
	TokenHash string // SHA-256 fingerprint of the opaque token
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session has passed its expiry at the given time.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
