package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Member is a registered user of the collective. Verified proves identity;
// VotingAuthorized grants voting rights and is flipped only by an admin.
// The two flags are independent.
type Member struct {
	ID               uuid.UUID `json:"id"`
	DNI              string    `json:"dni"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	PasswordHash     string    `json:"-"`
	Verified         bool      `json:"verified"`
	VotingAuthorized bool      `json:"voting_authorized"`
	Admin            bool      `json:"admin"`
	CreatedAt        time.Time `json:"created_at"`
}

// VoterID returns the normalized identifier used as the ballot
// deduplication key.
func (m *Member) VoterID() string {
	return NormalizeDNI(m.DNI)
}

// CanVote reports whether the member passes the identity-completeness and
// authorization gates. It does not cover the per-poll gates.
func (m *Member) CanVote() bool {
	return m.DNI != "" && m.Email != "" && m.Verified && m.VotingAuthorized
}

// NormalizeDNI upper-cases and trims a DNI so the same document always maps
// to the same voter identifier.
func NormalizeDNI(dni string) string {
	return strings.ToUpper(strings.TrimSpace(dni))
}
