package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sepeiunido/plataforma/internal/core/domain"
	"github.com/sepeiunido/plataforma/internal/core/ports"
)

type pollRepository struct {
	db *sql.DB
}

func NewPollRepository(db *sql.DB) ports.PollRepository {
	return &pollRepository{db: db}
}

func (r *pollRepository) Save(ctx context.Context, poll *domain.Poll) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	queryPoll := `
		INSERT INTO votaciones (id, titulo, descripcion, tipo, fecha_inicio, fecha_fin,
			publicado, resultados_publicos, multiple_respuestas, creado_por, fecha_creacion)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = tx.ExecContext(ctx, queryPoll,
		poll.ID, poll.Title, poll.Description, string(poll.Kind), poll.OpensAt, poll.ClosesAt,
		poll.Published, poll.ResultsPublic, poll.MultipleChoice, poll.CreatedBy, poll.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert poll: %w", err)
	}

	if err := insertOptions(ctx, tx, poll.Options); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *pollRepository) Update(ctx context.Context, poll *domain.Poll, options []domain.PollOption) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE votaciones
		SET titulo = $2, descripcion = $3, tipo = $4, fecha_inicio = $5, fecha_fin = $6,
			resultados_publicos = $7, multiple_respuestas = $8
		WHERE id = $1
	`
	res, err := tx.ExecContext(ctx, query,
		poll.ID, poll.Title, poll.Description, string(poll.Kind), poll.OpensAt, poll.ClosesAt,
		poll.ResultsPublic, poll.MultipleChoice,
	)
	if err != nil {
		return fmt.Errorf("failed to update poll: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return domain.ErrPollNotFound
	}

	if options != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM opciones WHERE votacion_id = $1`, poll.ID); err != nil {
			return fmt.Errorf("failed to delete options: %w", err)
		}
		if err := insertOptions(ctx, tx, options); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *pollRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Options and ballots cascade in the store.
	res, err := r.db.ExecContext(ctx, `DELETE FROM votaciones WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return domain.ErrPollNotFound
	}
	return nil
}

func (r *pollRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	query := pollSelect + ` WHERE id = $1`

	var poll domain.Poll
	if err := scanPoll(r.db.QueryRowContext(ctx, query, id), &poll); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPollNotFound
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}

	options, err := r.fetchOptions(ctx, poll.ID)
	if err != nil {
		return nil, err
	}
	poll.Options = options
	return &poll, nil
}

func (r *pollRepository) GetAll(ctx context.Context) ([]*domain.Poll, error) {
	query := pollSelect + ` ORDER BY fecha_creacion DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all polls: %w", err)
	}
	defer rows.Close()

	return r.scanPolls(ctx, rows)
}

func (r *pollRepository) GetPublished(ctx context.Context) ([]*domain.Poll, error) {
	query := pollSelect + ` WHERE publicado ORDER BY fecha_creacion DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get published polls: %w", err)
	}
	defer rows.Close()

	return r.scanPolls(ctx, rows)
}

func (r *pollRepository) GetActive(ctx context.Context, now time.Time) ([]*domain.Poll, error) {
	query := pollSelect + `
		WHERE publicado AND fecha_inicio <= $1 AND fecha_fin > $1
		ORDER BY fecha_fin ASC`
	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to get active polls: %w", err)
	}
	defer rows.Close()

	return r.scanPolls(ctx, rows)
}

func (r *pollRepository) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	return r.setFlag(ctx, `UPDATE votaciones SET publicado = $2 WHERE id = $1`, id, published)
}

func (r *pollRepository) SetResultsPublic(ctx context.Context, id uuid.UUID, public bool) error {
	return r.setFlag(ctx, `UPDATE votaciones SET resultados_publicos = $2 WHERE id = $1`, id, public)
}

func (r *pollRepository) setFlag(ctx context.Context, query string, id uuid.UUID, value bool) error {
	res, err := r.db.ExecContext(ctx, query, id, value)
	if err != nil {
		return fmt.Errorf("failed to update poll flag: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return domain.ErrPollNotFound
	}
	return nil
}

const pollSelect = `
	SELECT id, titulo, descripcion, tipo, fecha_inicio, fecha_fin,
		publicado, resultados_publicos, multiple_respuestas, creado_por, fecha_creacion
	FROM votaciones`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPoll(row rowScanner, poll *domain.Poll) error {
	var description sql.NullString
	var kind string
	if err := row.Scan(
		&poll.ID, &poll.Title, &description, &kind, &poll.OpensAt, &poll.ClosesAt,
		&poll.Published, &poll.ResultsPublic, &poll.MultipleChoice, &poll.CreatedBy, &poll.CreatedAt,
	); err != nil {
		return err
	}
	poll.Description = description.String
	poll.Kind = domain.PollKind(kind)
	return nil
}

func (r *pollRepository) scanPolls(ctx context.Context, rows *sql.Rows) ([]*domain.Poll, error) {
	var polls []*domain.Poll
	for rows.Next() {
		var poll domain.Poll
		if err := scanPoll(rows, &poll); err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, &poll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating polls: %w", err)
	}

	for _, poll := range polls {
		options, err := r.fetchOptions(ctx, poll.ID)
		if err != nil {
			return nil, err
		}
		poll.Options = options
	}
	return polls, nil
}

func (r *pollRepository) fetchOptions(ctx context.Context, pollID uuid.UUID) ([]domain.PollOption, error) {
	query := `
		SELECT id, votacion_id, texto, orden, fecha_creacion
		FROM opciones
		WHERE votacion_id = $1
		ORDER BY orden, fecha_creacion
	`
	rows, err := r.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to get poll options: %w", err)
	}
	defer rows.Close()

	var options []domain.PollOption
	for rows.Next() {
		var opt domain.PollOption
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.Text, &opt.Order, &opt.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		options = append(options, opt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating options: %w", err)
	}
	return options, nil
}

func insertOptions(ctx context.Context, tx *sql.Tx, options []domain.PollOption) error {
	query := `
		INSERT INTO opciones (id, votacion_id, texto, orden, fecha_creacion)
		VALUES ($1, $2, $3, $4, $5)
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare option statement: %w", err)
	}
	defer stmt.Close()

	for _, opt := range options {
		if _, err := stmt.ExecContext(ctx, opt.ID, opt.PollID, opt.Text, opt.Order, opt.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert option: %w", err)
		}
	}
	return nil
}
