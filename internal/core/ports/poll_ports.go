package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sepeiunido/plataforma/internal/core/domain"
)

type PollRepository interface {
	// Save inserts the poll and its options in a single transaction.
	Save(ctx context.Context, poll *domain.Poll) error
	// Update rewrites the poll row. When options is non-nil the existing
	// option set is deleted and replaced wholesale, in the same transaction.
	Update(ctx context.Context, poll *domain.Poll, options []domain.PollOption) error
	// Delete removes the poll; options and ballots go with it via cascade.
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	// GetAll returns every poll with its options, newest first.
	GetAll(ctx context.Context) ([]*domain.Poll, error)
	// GetPublished returns published polls, newest first.
	GetPublished(ctx context.Context) ([]*domain.Poll, error)
	// GetActive returns published polls whose window contains now. The
	// window predicate runs in the store, not in application code.
	GetActive(ctx context.Context, now time.Time) ([]*domain.Poll, error)
	SetPublished(ctx context.Context, id uuid.UUID, published bool) error
	SetResultsPublic(ctx context.Context, id uuid.UUID, public bool) error
}

type CreatePollInput struct {
	Title          string
	Description    string
	Kind           domain.PollKind
	OpensAt        time.Time
	ClosesAt       time.Time
	ResultsPublic  bool
	MultipleChoice bool
	Options        []string
}

type UpdatePollInput struct {
	Title          string
	Description    string
	Kind           domain.PollKind
	OpensAt        time.Time
	ClosesAt       time.Time
	ResultsPublic  bool
	MultipleChoice bool
	// Options nil keeps the current option set; non-nil replaces it.
	Options []string
}

type PollService interface {
	Create(ctx context.Context, actor *domain.Member, input CreatePollInput) (*domain.Poll, error)
	Update(ctx context.Context, actor *domain.Member, id uuid.UUID, input UpdatePollInput) (*domain.Poll, error)
	Delete(ctx context.Context, actor *domain.Member, id uuid.UUID) error
	SetPublished(ctx context.Context, actor *domain.Member, id uuid.UUID, published bool) error
	SetResultsPublic(ctx context.Context, actor *domain.Member, id uuid.UUID, public bool) error
	ListAll(ctx context.Context, actor *domain.Member) ([]*domain.PollOverview, error)
	ListPublished(ctx context.Context, viewer *domain.Member) ([]*domain.PollOverview, error)
	ListActive(ctx context.Context, viewer *domain.Member) ([]*domain.PollOverview, error)
	Tabulate(ctx context.Context, pollID uuid.UUID) ([]domain.OptionResult, error)
}
