package domain

import "time"

// Admin is an operator account allowed to manage campaigns.
type Admin struct {
	ID           int64
	Username     string
	PasswordHash string // argon2id PHC string
	CreatedAt    time.Time
}

// Session describes an authenticated admin browser session. The HTTP layer
// stores it in the request context once the session cookie is validated
// and passes it down explicitly; there is no process-wide session state.
type Session struct {
	Token     string
	AdminID   int64
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
