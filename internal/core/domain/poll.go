package domain

import (
	"time"

	"github.com/google/uuid"
)

// PollKind only changes the label the frontend renders; the voting rules are
// identical for all three.
type PollKind string

const (
	KindPoll       PollKind = "votacion"
	KindSurvey     PollKind = "encuesta"
	KindReferendum PollKind = "referendum"
)

func (k PollKind) Valid() bool {
	switch k {
	case KindPoll, KindSurvey, KindReferendum:
		return true
	}
	return false
}

// PollStatus is derived from the voting window, never stored.
type PollStatus string

const (
	StatusScheduled PollStatus = "scheduled"
	StatusActive    PollStatus = "active"
	StatusClosed    PollStatus = "closed"
)

type Poll struct {
	ID             uuid.UUID    `json:"id"`
	Title          string       `json:"title"`
	Description    string       `json:"description,omitempty"`
	Kind           PollKind     `json:"kind"`
	OpensAt        time.Time    `json:"opens_at"`
	ClosesAt       time.Time    `json:"closes_at"`
	Published      bool         `json:"published"`
	ResultsPublic  bool         `json:"results_public"`
	MultipleChoice bool         `json:"multiple_choice"`
	CreatedBy      *uuid.UUID   `json:"created_by,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	Options        []PollOption `json:"options"`
}

type PollOption struct {
	ID        uuid.UUID `json:"id"`
	PollID    uuid.UUID `json:"poll_id"`
	Text      string    `json:"text"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
}

// StatusAt derives the window status. The close instant itself counts as
// closed: the window is [OpensAt, ClosesAt).
func (p *Poll) StatusAt(now time.Time) PollStatus {
	if now.Before(p.OpensAt) {
		return StatusScheduled
	}
	if now.Before(p.ClosesAt) {
		return StatusActive
	}
	return StatusClosed
}

// OpenAt reports whether ballots may be cast at the given instant.
func (p *Poll) OpenAt(now time.Time) bool {
	return p.Published && p.StatusAt(now) == StatusActive
}

// HasOption reports whether the option id belongs to this poll.
func (p *Poll) HasOption(id uuid.UUID) bool {
	for _, opt := range p.Options {
		if opt.ID == id {
			return true
		}
	}
	return false
}

// PollOverview is a published poll as the membership sees it: window status,
// turnout, the caller's own voted flag and, when visible, the tabulation.
type PollOverview struct {
	Poll
	Status       PollStatus     `json:"status"`
	TotalBallots int64          `json:"total_ballots"`
	HasVoted     bool           `json:"has_voted"`
	Results      []OptionResult `json:"results,omitempty"`
}
