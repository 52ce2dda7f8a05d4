package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/masterkanin/sports-predictor/internal/database"
	"github.com/masterkanin/sports-predictor/internal/models"
)

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

const predictionColumns = `id, sport, player, team, opponent, game_date, stat, predicted_value,
	over_probability, line, confidence, confidence_score, range_low, range_high, top_factors, predicted_at`

// Create inserts a new prediction record
func (r *PostgresPredictionRepository) Create(ctx context.Context, p *models.PredictionRecord) error {
	query := `
		INSERT INTO predictions (` + predictionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		p.ID, p.Sport, p.Player, p.Team, p.Opponent, p.GameDate, p.Stat, p.PredictedValue,
		p.OverProbability, p.Line, p.Confidence, p.ConfidenceScore,
		p.PredictionRange[0], p.PredictionRange[1], p.TopFactors, p.PredictedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create prediction: %w", err)
	}
	return nil
}

// CreateBatch inserts prediction records in a single transaction
func (r *PostgresPredictionRepository) CreateBatch(ctx context.Context, predictions []models.PredictionRecord) error {
	if len(predictions) == 0 {
		return nil
	}

	tx, err := r.db.GetPool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO predictions (` + predictionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	for i := range predictions {
		p := &predictions[i]
		_, err := tx.Exec(ctx, query,
			p.ID, p.Sport, p.Player, p.Team, p.Opponent, p.GameDate, p.Stat, p.PredictedValue,
			p.OverProbability, p.Line, p.Confidence, p.ConfidenceScore,
			p.PredictionRange[0], p.PredictionRange[1], p.TopFactors, p.PredictedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert prediction for %s/%s: %w", p.Player, p.Stat, err)
		}
	}

	return tx.Commit(ctx)
}

// GetByID retrieves a prediction by ID
func (r *PostgresPredictionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PredictionRecord, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE id = $1`

	p := &models.PredictionRecord{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Sport, &p.Player, &p.Team, &p.Opponent, &p.GameDate, &p.Stat, &p.PredictedValue,
		&p.OverProbability, &p.Line, &p.Confidence, &p.ConfidenceScore,
		&p.PredictionRange[0], &p.PredictionRange[1], &p.TopFactors, &p.PredictedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}
	return p, nil
}

// GetBySportAndDate retrieves all predictions for a sport on a game date
func (r *PostgresPredictionRepository) GetBySportAndDate(ctx context.Context, sport models.Sport, date time.Time) ([]models.PredictionRecord, error) {
	query := `
		SELECT ` + predictionColumns + `
		FROM predictions
		WHERE sport = $1 AND game_date = $2
		ORDER BY confidence_score DESC, player
	`

	rows, err := r.db.GetPool().Query(ctx, query, sport, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	var predictions []models.PredictionRecord
	for rows.Next() {
		var p models.PredictionRecord
		err := rows.Scan(
			&p.ID, &p.Sport, &p.Player, &p.Team, &p.Opponent, &p.GameDate, &p.Stat, &p.PredictedValue,
			&p.OverProbability, &p.Line, &p.Confidence, &p.ConfidenceScore,
			&p.PredictionRange[0], &p.PredictionRange[1], &p.TopFactors, &p.PredictedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		predictions = append(predictions, p)
	}
	return predictions, rows.Err()
}
