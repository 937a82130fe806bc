package model

import "time"

// Session contains the stored login session: the bearer token for the
// remote API and when it stops being usable.
type Session struct {
	Token     string    `json:"token"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry. Sessions
// without an expiry never expire locally; the API has the final say.
func (s *Session) Expired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}
