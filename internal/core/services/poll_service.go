package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sepeiunido/plataforma/internal/core/domain"
	"github.com/sepeiunido/plataforma/internal/core/ports"
)

type pollService struct {
	polls    ports.PollRepository
	ballots  ports.BallotRepository
	notifier ports.Notifier
	now      func() time.Time
}

func NewPollService(polls ports.PollRepository, ballots ports.BallotRepository, notifier ports.Notifier) ports.PollService {
	return &pollService{
		polls:    polls,
		ballots:  ballots,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *pollService) Create(ctx context.Context, actor *domain.Member, input ports.CreatePollInput) (*domain.Poll, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if input.Title == "" {
		return nil, errors.New("title is required")
	}
	kind := input.Kind
	if kind == "" {
		kind = domain.KindPoll
	}
	if !kind.Valid() {
		return nil, errors.New("unknown poll kind")
	}
	if !input.OpensAt.Before(input.ClosesAt) {
		return nil, domain.ErrInvalidWindow
	}

	options := buildOptions(uuid.Nil, input.Options, s.now())
	if len(options) < 2 {
		return nil, errors.New("at least two options are required")
	}

	pollID := uuid.New()
	now := s.now()
	for i := range options {
		options[i].PollID = pollID
	}

	poll := &domain.Poll{
		ID:             pollID,
		Title:          input.Title,
		Description:    input.Description,
		Kind:           kind,
		OpensAt:        input.OpensAt,
		ClosesAt:       input.ClosesAt,
		ResultsPublic:  input.ResultsPublic,
		MultipleChoice: input.MultipleChoice,
		CreatedAt:      now,
		Options:        options,
	}
	if actor != nil {
		id := actor.ID
		poll.CreatedBy = &id
	}

	if err := s.polls.Save(ctx, poll); err != nil {
		return nil, err
	}
	return poll, nil
}

func (s *pollService) Update(ctx context.Context, actor *domain.Member, id uuid.UUID, input ports.UpdatePollInput) (*domain.Poll, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	poll, err := s.polls.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title == "" {
		return nil, errors.New("title is required")
	}
	kind := input.Kind
	if kind == "" {
		kind = poll.Kind
	}
	if !kind.Valid() {
		return nil, errors.New("unknown poll kind")
	}
	if !input.OpensAt.Before(input.ClosesAt) {
		return nil, domain.ErrInvalidWindow
	}

	poll.Title = input.Title
	poll.Description = input.Description
	poll.Kind = kind
	poll.OpensAt = input.OpensAt
	poll.ClosesAt = input.ClosesAt
	poll.ResultsPublic = input.ResultsPublic
	poll.MultipleChoice = input.MultipleChoice

	// Options are replaced wholesale, never diffed.
	var replacement []domain.PollOption
	if input.Options != nil {
		replacement = buildOptions(poll.ID, input.Options, s.now())
		if len(replacement) < 2 {
			return nil, errors.New("at least two options are required")
		}
		poll.Options = replacement
	}

	if err := s.polls.Update(ctx, poll, replacement); err != nil {
		return nil, err
	}
	return poll, nil
}

func (s *pollService) Delete(ctx context.Context, actor *domain.Member, id uuid.UUID) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	return s.polls.Delete(ctx, id)
}

func (s *pollService) SetPublished(ctx context.Context, actor *domain.Member, id uuid.UUID, published bool) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	poll, err := s.polls.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.polls.SetPublished(ctx, id, published); err != nil {
		return err
	}
	if published && !poll.Published && s.notifier != nil {
		poll.Published = true
		go s.notifier.PollPublished(context.WithoutCancel(ctx), poll)
	}
	return nil
}

func (s *pollService) SetResultsPublic(ctx context.Context, actor *domain.Member, id uuid.UUID, public bool) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if _, err := s.polls.GetByID(ctx, id); err != nil {
		return err
	}
	return s.polls.SetResultsPublic(ctx, id, public)
}

func (s *pollService) ListAll(ctx context.Context, actor *domain.Member) ([]*domain.PollOverview, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	polls, err := s.polls.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	// Admins always see the tabulation, voted flag included for symmetry.
	return s.annotate(ctx, polls, actor, true)
}

func (s *pollService) ListPublished(ctx context.Context, viewer *domain.Member) ([]*domain.PollOverview, error) {
	polls, err := s.polls.GetPublished(ctx)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, polls, viewer, false)
}

func (s *pollService) ListActive(ctx context.Context, viewer *domain.Member) ([]*domain.PollOverview, error) {
	polls, err := s.polls.GetActive(ctx, s.now())
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, polls, viewer, false)
}

func (s *pollService) Tabulate(ctx context.Context, pollID uuid.UUID) ([]domain.OptionResult, error) {
	if _, err := s.polls.GetByID(ctx, pollID); err != nil {
		return nil, err
	}
	return s.ballots.Tabulate(ctx, pollID)
}

func (s *pollService) annotate(ctx context.Context, polls []*domain.Poll, viewer *domain.Member, forceResults bool) ([]*domain.PollOverview, error) {
	now := s.now()
	overviews := make([]*domain.PollOverview, 0, len(polls))
	for _, poll := range polls {
		ov := &domain.PollOverview{
			Poll:   *poll,
			Status: poll.StatusAt(now),
		}

		total, err := s.ballots.CountByPoll(ctx, poll.ID)
		if err != nil {
			return nil, err
		}
		ov.TotalBallots = total

		if viewer != nil && viewer.DNI != "" {
			voted, err := s.ballots.HasVoted(ctx, poll.ID, viewer.VoterID())
			if err != nil {
				return nil, err
			}
			ov.HasVoted = voted
		}

		if forceResults || poll.ResultsPublic {
			results, err := s.ballots.Tabulate(ctx, poll.ID)
			if err != nil {
				return nil, err
			}
			ov.Results = results
		}

		overviews = append(overviews, ov)
	}
	return overviews, nil
}

func requireAdmin(actor *domain.Member) error {
	if actor == nil {
		return domain.ErrNotAuthenticated
	}
	if !actor.Admin {
		return domain.ErrAdminRequired
	}
	return nil
}

func buildOptions(pollID uuid.UUID, texts []string, now time.Time) []domain.PollOption {
	options := make([]domain.PollOption, 0, len(texts))
	for _, text := range texts {
		if text == "" {
			continue
		}
		options = append(options, domain.PollOption{
			ID:        uuid.New(),
			PollID:    pollID,
			Text:      text,
			Order:     len(options) + 1,
			CreatedAt: now,
		})
	}
	return options
}
