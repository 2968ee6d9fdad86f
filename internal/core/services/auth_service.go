package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sepeiunido/plataforma/internal/core/domain"
	"github.com/sepeiunido/plataforma/internal/core/ports"
)

const sessionTTL = 12 * time.Hour

type authService struct {
	members  ports.MemberRepository
	sessions ports.SessionRepository
	now      func() time.Time
}

func NewAuthService(members ports.MemberRepository, sessions ports.SessionRepository) ports.AuthService {
	return &authService{
		members:  members,
		sessions: sessions,
		now:      time.Now,
	}
}

func (s *authService) Register(ctx context.Context, input ports.RegisterInput) (*domain.Member, error) {
	dni := domain.NormalizeDNI(input.DNI)
	if dni == "" || input.Email == "" || input.Password == "" {
		return nil, fmt.Errorf("dni, email and password are required")
	}

	if existing, err := s.members.GetByDNI(ctx, dni); err != nil {
		return nil, fmt.Errorf("failed to check dni: %w", err)
	} else if existing != nil {
		return nil, domain.ErrMemberExists
	}
	if existing, err := s.members.GetByEmail(ctx, input.Email); err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if existing != nil {
		return nil, domain.ErrMemberExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	member := &domain.Member{
		ID:           uuid.New(),
		DNI:          dni,
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	if err := s.members.Create(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}
	return member, nil
}

// Login accepts the member's email or DNI as the identifier.
func (s *authService) Login(ctx context.Context, identifier, password string) (string, *domain.Member, error) {
	member, err := s.members.GetByEmail(ctx, identifier)
	if err != nil {
		return "", nil, fmt.Errorf("failed to get member: %w", err)
	}
	if member == nil {
		member, err = s.members.GetByDNI(ctx, identifier)
		if err != nil {
			return "", nil, fmt.Errorf("failed to get member: %w", err)
		}
	}
	if member == nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(member.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := generateToken()
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	now := s.now()
	session := &domain.Session{
		ID:             uuid.New(),
		MemberID:       member.ID,
		TokenHash:      hashToken(token),
		ExpiresAt:      now.Add(sessionTTL),
		LastActivityAt: now,
		Active:         true,
		CreatedAt:      now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", nil, fmt.Errorf("failed to store session: %w", err)
	}

	return token, member, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	session, err := s.sessions.GetByTokenHash(ctx, hashToken(token))
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil
	}
	return s.sessions.Deactivate(ctx, session.ID)
}

func (s *authService) ResolveSession(ctx context.Context, token string) (*domain.Member, error) {
	if token == "" {
		return nil, domain.ErrNotAuthenticated
	}

	session, err := s.sessions.GetByTokenHash(ctx, hashToken(token))
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, domain.ErrNotAuthenticated
	}
	if !session.ValidAt(s.now()) {
		return nil, domain.ErrSessionExpired
	}

	member, err := s.members.GetByID(ctx, session.MemberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	if member == nil {
		return nil, domain.ErrNotAuthenticated
	}

	// Last activity is bookkeeping; a failed touch must not log the
	// caller out.
	_ = s.sessions.Touch(ctx, session.ID)

	return member, nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
