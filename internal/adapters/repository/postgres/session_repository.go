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

type sessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) ports.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	query := `
		INSERT INTO sesiones (id, usuario_id, token_hash, fecha_expiracion, ultima_actividad, activa, fecha_creacion)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		session.ID, session.MemberID, session.TokenHash,
		session.ExpiresAt, session.LastActivityAt, session.Active, session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (r *sessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	query := `
		SELECT id, usuario_id, token_hash, fecha_expiracion, ultima_actividad, activa, fecha_creacion
		FROM sesiones
		WHERE token_hash = $1
	`
	session := &domain.Session{}
	err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&session.ID, &session.MemberID, &session.TokenHash,
		&session.ExpiresAt, &session.LastActivityAt, &session.Active, &session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

func (r *sessionRepository) Touch(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE sesiones SET ultima_actividad = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	return nil
}

func (r *sessionRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE sesiones SET activa = false WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate session: %w", err)
	}
	return nil
}
