package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/masterkanin/sports-predictor/internal/database"
	"github.com/masterkanin/sports-predictor/internal/models"
)

// PostgresPerformanceRepository implements PerformanceRepository for PostgreSQL
type PostgresPerformanceRepository struct {
	db *database.DB
}

// NewPostgresPerformanceRepository creates a new performance repository
func NewPostgresPerformanceRepository(db *database.DB) PerformanceRepository {
	return &PostgresPerformanceRepository{db: db}
}

// Upsert writes a snapshot, replacing any earlier snapshot for the same
// sport and date.
func (r *PostgresPerformanceRepository) Upsert(ctx context.Context, s *models.PerformanceSnapshot) error {
	query := `
		INSERT INTO performance_snapshots (sport, date, mse, mae, rmse, weighted_mse, accuracy, auc,
			over_accuracy, under_accuracy, calibration_error, sample_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (sport, date) DO UPDATE SET
			mse = EXCLUDED.mse,
			mae = EXCLUDED.mae,
			rmse = EXCLUDED.rmse,
			weighted_mse = EXCLUDED.weighted_mse,
			accuracy = EXCLUDED.accuracy,
			auc = EXCLUDED.auc,
			over_accuracy = EXCLUDED.over_accuracy,
			under_accuracy = EXCLUDED.under_accuracy,
			calibration_error = EXCLUDED.calibration_error,
			sample_count = EXCLUDED.sample_count,
			created_at = EXCLUDED.created_at
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		s.Sport, s.Date, s.MSE, s.MAE, s.RMSE, s.WeightedMSE, s.Accuracy, s.AUC,
		s.OverAccuracy, s.UnderAccuracy, s.CalibrationError, s.SampleCount, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert performance snapshot: %w", err)
	}
	return nil
}

// GetHistory retrieves snapshots for a sport from a start date, oldest first
func (r *PostgresPerformanceRepository) GetHistory(ctx context.Context, sport models.Sport, since time.Time) ([]models.PerformanceSnapshot, error) {
	query := `
		SELECT sport, date, mse, mae, rmse, weighted_mse, accuracy, auc,
			over_accuracy, under_accuracy, calibration_error, sample_count, created_at
		FROM performance_snapshots
		WHERE sport = $1 AND date >= $2
		ORDER BY date
	`

	rows, err := r.db.GetPool().Query(ctx, query, sport, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query performance history: %w", err)
	}
	defer rows.Close()

	var snapshots []models.PerformanceSnapshot
	for rows.Next() {
		var s models.PerformanceSnapshot
		err := rows.Scan(
			&s.Sport, &s.Date, &s.MSE, &s.MAE, &s.RMSE, &s.WeightedMSE, &s.Accuracy, &s.AUC,
			&s.OverAccuracy, &s.UnderAccuracy, &s.CalibrationError, &s.SampleCount, &s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan performance snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}
