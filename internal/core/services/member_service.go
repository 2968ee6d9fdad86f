package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sepeiunido/plataforma/internal/core/domain"
	"github.com/sepeiunido/plataforma/internal/core/ports"
)

type memberService struct {
	members ports.MemberRepository
}

func NewMemberService(members ports.MemberRepository) ports.MemberService {
	return &memberService{members: members}
}

func (s *memberService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	member, err := s.members.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	if member == nil {
		return nil, domain.ErrMemberNotFound
	}
	return member, nil
}

func (s *memberService) SetVerified(ctx context.Context, actor *domain.Member, id uuid.UUID, verified bool) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.members.SetVerified(ctx, id, verified)
}

func (s *memberService) SetVotingAuthorized(ctx context.Context, actor *domain.Member, id uuid.UUID, authorized bool) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.members.SetVotingAuthorized(ctx, id, authorized)
}
