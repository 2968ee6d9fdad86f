package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sepeiunido/plataforma/internal/core/domain"
	"github.com/sepeiunido/plataforma/internal/core/ports"
)

type voteService struct {
	polls   ports.PollRepository
	ballots ports.BallotRepository
	now     func() time.Time
}

func NewVoteService(polls ports.PollRepository, ballots ports.BallotRepository) ports.VoteService {
	return &voteService{
		polls:   polls,
		ballots: ballots,
		now:     time.Now,
	}
}

// Cast walks the gate sequence in order; the ballot rows are inserted only
// if every gate passes. The duplicate pre-check gives a friendly rejection,
// but the repository's atomic insert is what holds under concurrent casts.
func (s *voteService) Cast(ctx context.Context, voter *domain.Member, pollID uuid.UUID, optionIDs []uuid.UUID) error {
	if voter == nil {
		return domain.ErrNotAuthenticated
	}
	if voter.DNI == "" || voter.Email == "" || !voter.Verified {
		return domain.ErrIdentityIncomplete
	}
	if !voter.VotingAuthorized {
		return domain.ErrNotAuthorized
	}

	voterID := voter.VoterID()
	voted, err := s.ballots.HasVoted(ctx, pollID, voterID)
	if err != nil {
		return err
	}
	if voted {
		return domain.ErrAlreadyVoted
	}

	poll, err := s.polls.GetByID(ctx, pollID)
	if err != nil {
		return err
	}
	if !poll.Published {
		return domain.ErrPollNotPublished
	}
	now := s.now()
	if now.Before(poll.OpensAt) {
		return domain.ErrPollNotOpen
	}
	if !now.Before(poll.ClosesAt) {
		return domain.ErrPollClosed
	}

	selection := dedupe(optionIDs)
	if len(selection) == 0 {
		return domain.ErrInvalidSelection
	}
	if len(selection) > 1 && !poll.MultipleChoice {
		return domain.ErrInvalidSelection
	}
	for _, optionID := range selection {
		if !poll.HasOption(optionID) {
			return domain.ErrInvalidOption
		}
	}

	ballots := make([]domain.Ballot, 0, len(selection))
	for _, optionID := range selection {
		ballots = append(ballots, domain.Ballot{
			ID:         uuid.New(),
			PollID:     pollID,
			OptionID:   optionID,
			VoterID:    voterID,
			VoterEmail: voter.Email,
			CastAt:     now,
		})
	}

	return s.ballots.SaveEvent(ctx, ballots)
}

func (s *voteService) HasVoted(ctx context.Context, voter *domain.Member, pollID uuid.UUID) (bool, error) {
	if voter == nil {
		return false, domain.ErrNotAuthenticated
	}
	if voter.DNI == "" {
		return false, domain.ErrIdentityIncomplete
	}
	return s.ballots.HasVoted(ctx, pollID, voter.VoterID())
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
