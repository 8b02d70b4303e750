package postgres

import (
	"context"
	"database/sql"
	"time"

	"haul/internal/domain"
	"haul/internal/repository"
)

// QuarterLockRepository is a PostgreSQL implementation of repository.QuarterLockRepository.
type QuarterLockRepository struct {
	q Querier
}

// NewQuarterLockRepository creates a new PostgreSQL quarter lock repository.
func NewQuarterLockRepository(db *sql.DB) *QuarterLockRepository {
	return &QuarterLockRepository{q: db}
}

// Lock marks a quarter as closed for filing. Idempotent.
func (r *QuarterLockRepository) Lock(ctx context.Context, userID string, quarter domain.Quarter) error {
	query := `
		INSERT INTO quarter_locks (user_id, quarter, locked_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, quarter) DO NOTHING
	`

	_, err := r.q.ExecContext(ctx, query, userID, quarter.String(), time.Now())
	return err
}

// Unlock reopens a quarter.
func (r *QuarterLockRepository) Unlock(ctx context.Context, userID string, quarter domain.Quarter) error {
	query := `DELETE FROM quarter_locks WHERE user_id = $1 AND quarter = $2`

	result, err := r.q.ExecContext(ctx, query, userID, quarter.String())
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// IsLocked reports whether a quarter is closed for filing.
func (r *QuarterLockRepository) IsLocked(ctx context.Context, userID string, quarter domain.Quarter) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM quarter_locks WHERE user_id = $1 AND quarter = $2)`

	var locked bool
	if err := r.q.QueryRowContext(ctx, query, userID, quarter.String()).Scan(&locked); err != nil {
		return false, err
	}

	return locked, nil
}

// Ensure QuarterLockRepository implements repository.QuarterLockRepository.
var _ repository.QuarterLockRepository = (*QuarterLockRepository)(nil)
