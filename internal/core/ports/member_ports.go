package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/sepeiunido/plataforma/internal/core/domain"
)

type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error)
	GetByEmail(ctx context.Context, email string) (*domain.Member, error)
	GetByDNI(ctx context.Context, dni string) (*domain.Member, error)
	SetVerified(ctx context.Context, id uuid.UUID, verified bool) error
	SetVotingAuthorized(ctx context.Context, id uuid.UUID, authorized bool) error
}

type MemberService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error)
	SetVerified(ctx context.Context, actor *domain.Member, id uuid.UUID, verified bool) error
	SetVotingAuthorized(ctx context.Context, actor *domain.Member, id uuid.UUID, authorized bool) error
}
