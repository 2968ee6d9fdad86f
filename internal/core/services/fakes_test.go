package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sepeiunido/plataforma/internal/core/domain"
)

// In-memory repositories for exercising the services without a store.

type fakePollRepo struct {
	polls map[uuid.UUID]*domain.Poll
	err   error
}

func newFakePollRepo() *fakePollRepo {
	return &fakePollRepo{polls: make(map[uuid.UUID]*domain.Poll)}
}

func (f *fakePollRepo) Save(ctx context.Context, poll *domain.Poll) error {
	if f.err != nil {
		return f.err
	}
	cp := *poll
	f.polls[poll.ID] = &cp
	return nil
}

func (f *fakePollRepo) Update(ctx context.Context, poll *domain.Poll, options []domain.PollOption) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.polls[poll.ID]; !ok {
		return domain.ErrPollNotFound
	}
	cp := *poll
	if options == nil {
		cp.Options = f.polls[poll.ID].Options
	}
	f.polls[poll.ID] = &cp
	return nil
}

func (f *fakePollRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.polls[id]; !ok {
		return domain.ErrPollNotFound
	}
	delete(f.polls, id)
	return nil
}

func (f *fakePollRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	if f.err != nil {
		return nil, f.err
	}
	poll, ok := f.polls[id]
	if !ok {
		return nil, domain.ErrPollNotFound
	}
	cp := *poll
	return &cp, nil
}

func (f *fakePollRepo) GetAll(ctx context.Context) ([]*domain.Poll, error) {
	return f.list(func(*domain.Poll) bool { return true })
}

func (f *fakePollRepo) GetPublished(ctx context.Context) ([]*domain.Poll, error) {
	return f.list(func(p *domain.Poll) bool { return p.Published })
}

func (f *fakePollRepo) GetActive(ctx context.Context, now time.Time) ([]*domain.Poll, error) {
	return f.list(func(p *domain.Poll) bool { return p.OpenAt(now) })
}

func (f *fakePollRepo) list(keep func(*domain.Poll) bool) ([]*domain.Poll, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Poll
	for _, poll := range f.polls {
		if keep(poll) {
			cp := *poll
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakePollRepo) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	poll, ok := f.polls[id]
	if !ok {
		return domain.ErrPollNotFound
	}
	poll.Published = published
	return nil
}

func (f *fakePollRepo) SetResultsPublic(ctx context.Context, id uuid.UUID, public bool) error {
	poll, ok := f.polls[id]
	if !ok {
		return domain.ErrPollNotFound
	}
	poll.ResultsPublic = public
	return nil
}

type fakeBallotRepo struct {
	polls   *fakePollRepo
	ballots []domain.Ballot
	err     error
}

func newFakeBallotRepo(polls *fakePollRepo) *fakeBallotRepo {
	return &fakeBallotRepo{polls: polls}
}

func (f *fakeBallotRepo) SaveEvent(ctx context.Context, ballots []domain.Ballot) error {
	if f.err != nil {
		return f.err
	}
	if len(ballots) == 0 {
		return domain.ErrInvalidSelection
	}
	for _, existing := range f.ballots {
		if existing.PollID == ballots[0].PollID && existing.VoterID == ballots[0].VoterID {
			return domain.ErrAlreadyVoted
		}
	}
	f.ballots = append(f.ballots, ballots...)
	return nil
}

func (f *fakeBallotRepo) HasVoted(ctx context.Context, pollID uuid.UUID, voterID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, b := range f.ballots {
		if b.PollID == pollID && b.VoterID == voterID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBallotRepo) CountByPoll(ctx context.Context, pollID uuid.UUID) (int64, error) {
	var count int64
	for _, b := range f.ballots {
		if b.PollID == pollID {
			count++
		}
	}
	return count, nil
}

func (f *fakeBallotRepo) Tabulate(ctx context.Context, pollID uuid.UUID) ([]domain.OptionResult, error) {
	poll, ok := f.polls.polls[pollID]
	if !ok {
		return nil, domain.ErrPollNotFound
	}
	counts := make(map[uuid.UUID]int64)
	var total int64
	for _, b := range f.ballots {
		if b.PollID == pollID {
			counts[b.OptionID]++
			total++
		}
	}
	results := make([]domain.OptionResult, 0, len(poll.Options))
	for _, opt := range poll.Options {
		res := domain.OptionResult{OptionID: opt.ID, Text: opt.Text, Votes: counts[opt.ID]}
		if total > 0 {
			res.Percentage = float64(res.Votes) / float64(total) * 100
		}
		results = append(results, res)
	}
	return results, nil
}

type fakeMemberRepo struct {
	members map[uuid.UUID]*domain.Member
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{members: make(map[uuid.UUID]*domain.Member)}
}

func (f *fakeMemberRepo) Create(ctx context.Context, member *domain.Member) error {
	cp := *member
	f.members[member.ID] = &cp
	return nil
}

func (f *fakeMemberRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	member, ok := f.members[id]
	if !ok {
		return nil, nil
	}
	cp := *member
	return &cp, nil
}

func (f *fakeMemberRepo) GetByEmail(ctx context.Context, email string) (*domain.Member, error) {
	for _, member := range f.members {
		if member.Email == email {
			cp := *member
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeMemberRepo) GetByDNI(ctx context.Context, dni string) (*domain.Member, error) {
	normalized := domain.NormalizeDNI(dni)
	for _, member := range f.members {
		if member.DNI == normalized {
			cp := *member
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeMemberRepo) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	member, ok := f.members[id]
	if !ok {
		return domain.ErrMemberNotFound
	}
	member.Verified = verified
	return nil
}

func (f *fakeMemberRepo) SetVotingAuthorized(ctx context.Context, id uuid.UUID, authorized bool) error {
	member, ok := f.members[id]
	if !ok {
		return domain.ErrMemberNotFound
	}
	member.VotingAuthorized = authorized
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]*domain.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[string]*domain.Session)}
}

func (f *fakeSessionRepo) Create(ctx context.Context, session *domain.Session) error {
	cp := *session
	f.sessions[session.TokenHash] = &cp
	return nil
}

func (f *fakeSessionRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	session, ok := f.sessions[tokenHash]
	if !ok {
		return nil, nil
	}
	cp := *session
	return &cp, nil
}

func (f *fakeSessionRepo) Touch(ctx context.Context, id uuid.UUID) error {
	for _, session := range f.sessions {
		if session.ID == id {
			session.LastActivityAt = time.Now()
		}
	}
	return nil
}

func (f *fakeSessionRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	for _, session := range f.sessions {
		if session.ID == id {
			session.Active = false
		}
	}
	return nil
}
