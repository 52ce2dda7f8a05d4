package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/masterkanin/sports-predictor/internal/database"
	"github.com/masterkanin/sports-predictor/internal/models"
)

// PostgresOutcomeRepository implements OutcomeRepository for PostgreSQL
type PostgresOutcomeRepository struct {
	db *database.DB
}

// NewPostgresOutcomeRepository creates a new outcome repository
func NewPostgresOutcomeRepository(db *database.DB) OutcomeRepository {
	return &PostgresOutcomeRepository{db: db}
}

// CreateBatch inserts settled outcomes, ignoring duplicates so a re-run of
// the tracking job is safe.
func (r *PostgresOutcomeRepository) CreateBatch(ctx context.Context, outcomes []models.Outcome) error {
	if len(outcomes) == 0 {
		return nil
	}

	tx, err := r.db.GetPool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO outcomes (sport, player, stat, game_date, actual_value)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (sport, player, stat, game_date) DO NOTHING
	`
	for i := range outcomes {
		o := &outcomes[i]
		if _, err := tx.Exec(ctx, query, o.Sport, o.Player, o.Stat, o.GameDate, o.ActualValue); err != nil {
			return fmt.Errorf("failed to insert outcome for %s/%s: %w", o.Player, o.Stat, err)
		}
	}

	return tx.Commit(ctx)
}

// GetBySportAndDate retrieves all outcomes for a sport on a game date
func (r *PostgresOutcomeRepository) GetBySportAndDate(ctx context.Context, sport models.Sport, date time.Time) ([]models.Outcome, error) {
	query := `
		SELECT sport, player, stat, game_date, actual_value
		FROM outcomes
		WHERE sport = $1 AND game_date = $2
		ORDER BY player, stat
	`

	rows, err := r.db.GetPool().Query(ctx, query, sport, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []models.Outcome
	for rows.Next() {
		var o models.Outcome
		if err := rows.Scan(&o.Sport, &o.Player, &o.Stat, &o.GameDate, &o.ActualValue); err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}
