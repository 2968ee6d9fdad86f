package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/sepeiunido/plataforma/internal/core/domain"
)

type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error)
	Touch(ctx context.Context, id uuid.UUID) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type RegisterInput struct {
	DNI      string
	Email    string
	Name     string
	Password string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.Member, error)
	// Login resolves the member by email or DNI, verifies the password and
	// issues an opaque session token.
	Login(ctx context.Context, identifier, password string) (string, *domain.Member, error)
	Logout(ctx context.Context, token string) error
	// ResolveSession is the session contract: token in, member out. It
	// rejects expired or deactivated sessions and touches last activity.
	ResolveSession(ctx context.Context, token string) (*domain.Member, error)
}
