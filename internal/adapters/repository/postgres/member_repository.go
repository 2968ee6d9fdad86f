package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sepeiunido/plataforma/internal/core/domain"
	"github.com/sepeiunido/plataforma/internal/core/ports"
)

type memberRepository struct {
	db *sql.DB
}

func NewMemberRepository(db *sql.DB) ports.MemberRepository {
	return &memberRepository{db: db}
}

const memberSelect = `
	SELECT id, dni, email, nombre, password_hash, verificado, autorizado_votar, es_admin, fecha_creacion
	FROM usuarios`

func (r *memberRepository) Create(ctx context.Context, member *domain.Member) error {
	query := `
		INSERT INTO usuarios (id, dni, email, nombre, password_hash, verificado, autorizado_votar, es_admin, fecha_creacion)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		member.ID, member.DNI, member.Email, member.Name, member.PasswordHash,
		member.Verified, member.VotingAuthorized, member.Admin, member.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

func (r *memberRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	return r.getOne(ctx, memberSelect+` WHERE id = $1`, id)
}

func (r *memberRepository) GetByEmail(ctx context.Context, email string) (*domain.Member, error) {
	return r.getOne(ctx, memberSelect+` WHERE email = $1`, email)
}

func (r *memberRepository) GetByDNI(ctx context.Context, dni string) (*domain.Member, error) {
	return r.getOne(ctx, memberSelect+` WHERE dni = $1`, domain.NormalizeDNI(dni))
}

func (r *memberRepository) getOne(ctx context.Context, query string, arg any) (*domain.Member, error) {
	member := &domain.Member{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&member.ID, &member.DNI, &member.Email, &member.Name, &member.PasswordHash,
		&member.Verified, &member.VotingAuthorized, &member.Admin, &member.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return member, nil
}

func (r *memberRepository) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	return r.setFlag(ctx, `UPDATE usuarios SET verificado = $2 WHERE id = $1`, id, verified)
}

func (r *memberRepository) SetVotingAuthorized(ctx context.Context, id uuid.UUID, authorized bool) error {
	return r.setFlag(ctx, `UPDATE usuarios SET autorizado_votar = $2 WHERE id = $1`, id, authorized)
}

func (r *memberRepository) setFlag(ctx context.Context, query string, id uuid.UUID, value bool) error {
	res, err := r.db.ExecContext(ctx, query, id, value)
	if err != nil {
		return fmt.Errorf("failed to update member flag: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}
