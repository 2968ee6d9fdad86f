package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is a server-side login session. Only the sha256 hash of the
// bearer token is stored.
type Session struct {
	ID             uuid.UUID `json:"id"`
	MemberID       uuid.UUID `json:"member_id"`
	TokenHash      string    `json:"-"`
	ExpiresAt      time.Time `json:"expires_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
}

// ValidAt reports whether the session can still resolve a caller.
func (s *Session) ValidAt(now time.Time) bool {
	return s.Active && now.Before(s.ExpiresAt)
}
