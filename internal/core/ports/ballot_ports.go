package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/sepeiunido/plataforma/internal/core/domain"
)

type BallotRepository interface {
	// SaveEvent stores every ballot row of one casting event atomically.
	// All rows carry the same poll and voter id. If the voter already has
	// any ballot on the poll, no row is written and ErrAlreadyVoted is
	// returned; the store's uniqueness constraint backs this under
	// concurrent casts.
	SaveEvent(ctx context.Context, ballots []domain.Ballot) error
	HasVoted(ctx context.Context, pollID uuid.UUID, voterID string) (bool, error)
	CountByPoll(ctx context.Context, pollID uuid.UUID) (int64, error)
	// Tabulate returns one row per option in display order, zero-count
	// options included.
	Tabulate(ctx context.Context, pollID uuid.UUID) ([]domain.OptionResult, error)
}

type VoteService interface {
	// Cast runs the full gate sequence for the already-resolved voter and
	// inserts the ballot rows only if every gate passes.
	Cast(ctx context.Context, voter *domain.Member, pollID uuid.UUID, optionIDs []uuid.UUID) error
	HasVoted(ctx context.Context, voter *domain.Member, pollID uuid.UUID) (bool, error)
}
