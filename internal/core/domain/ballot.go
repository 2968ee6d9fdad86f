package domain

import (
	"time"

	"github.com/google/uuid"
)

// Ballot is one voter's recorded choice for one option. A single casting
// event produces one row on single-choice polls and one row per selected
// option on multiple-choice polls; all rows of an event share the voter id
// and cast timestamp. Ballots are immutable once stored.
type Ballot struct {
	ID         uuid.UUID `json:"id"`
	PollID     uuid.UUID `json:"poll_id"`
	OptionID   uuid.UUID `json:"option_id"`
	VoterID    string    `json:"voter_id"`
	VoterEmail string    `json:"voter_email"`
	CastAt     time.Time `json:"cast_at"`
}

// OptionResult is one row of a tabulation: absolute count plus the share of
// all ballots cast on the poll, 0 when the poll has no ballots.
type OptionResult struct {
	OptionID   uuid.UUID `json:"option_id"`
	Text       string    `json:"text"`
	Votes      int64     `json:"votes"`
	Percentage float64   `json:"percentage"`
}
