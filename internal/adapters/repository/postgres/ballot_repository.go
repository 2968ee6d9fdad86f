package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/sepeiunido/plataforma/internal/core/domain"
	"github.com/sepeiunido/plataforma/internal/core/ports"
)

type ballotRepository struct {
	db *sql.DB
}

func NewBallotRepository(db *sql.DB) ports.BallotRepository {
	return &ballotRepository{db: db}
}

// SaveEvent inserts every row of one casting event in a single serializable
// transaction that also re-checks for an existing ballot. Two concurrent
// events for the same (poll, voter) cannot both commit: the loser hits the
// unique index or a serialization failure, both reported as ErrAlreadyVoted.
func (r *ballotRepository) SaveEvent(ctx context.Context, ballots []domain.Ballot) error {
	if len(ballots) == 0 {
		return domain.ErrInvalidSelection
	}
	pollID := ballots[0].PollID
	voterID := ballots[0].VoterID

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM votos WHERE votacion_id = $1 AND user_id = $2 LIMIT 1`,
		pollID, voterID,
	).Scan(&exists)
	if err == nil {
		return domain.ErrAlreadyVoted
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check existing ballot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO votos (id, votacion_id, opcion_id, user_id, user_email, fecha_voto)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare ballot statement: %w", err)
	}
	defer stmt.Close()

	for _, b := range ballots {
		if _, err := stmt.ExecContext(ctx, b.ID, b.PollID, b.OptionID, b.VoterID, b.VoterEmail, b.CastAt); err != nil {
			if isDuplicateCast(err) {
				return domain.ErrAlreadyVoted
			}
			return fmt.Errorf("failed to insert ballot: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		if isDuplicateCast(err) {
			return domain.ErrAlreadyVoted
		}
		return fmt.Errorf("failed to commit ballots: %w", err)
	}
	return nil
}

func (r *ballotRepository) HasVoted(ctx context.Context, pollID uuid.UUID, voterID string) (bool, error) {
	query := `SELECT 1 FROM votos WHERE votacion_id = $1 AND user_id = $2 LIMIT 1`
	var exists int
	err := r.db.QueryRowContext(ctx, query, pollID, voterID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check existing ballot: %w", err)
	}
	return true, nil
}

func (r *ballotRepository) CountByPoll(ctx context.Context, pollID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM votos WHERE votacion_id = $1`, pollID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count ballots: %w", err)
	}
	return count, nil
}

// Tabulate aggregates on read; no running counters are kept anywhere.
func (r *ballotRepository) Tabulate(ctx context.Context, pollID uuid.UUID) ([]domain.OptionResult, error) {
	query := `
		SELECT o.id, o.texto, COUNT(v.id)
		FROM opciones o
		LEFT JOIN votos v ON v.opcion_id = o.id
		WHERE o.votacion_id = $1
		GROUP BY o.id, o.texto, o.orden, o.fecha_creacion
		ORDER BY o.orden, o.fecha_creacion
	`
	rows, err := r.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to tabulate results: %w", err)
	}
	defer rows.Close()

	var results []domain.OptionResult
	var total int64
	for rows.Next() {
		var res domain.OptionResult
		if err := rows.Scan(&res.OptionID, &res.Text, &res.Votes); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		total += res.Votes
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating results: %w", err)
	}

	if total > 0 {
		for i := range results {
			results[i].Percentage = float64(results[i].Votes) / float64(total) * 100
		}
	}
	return results, nil
}

// isDuplicateCast recognizes both ways a concurrent duplicate loses:
// unique_violation (23505) and serialization_failure (40001).
func isDuplicateCast(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "23505" || pqErr.Code == "40001"
}
