// Package repository persists predictions, outcomes and performance
// snapshots in PostgreSQL.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/masterkanin/sports-predictor/internal/models"
)

// PredictionRepository stores generated prediction records.
type PredictionRepository interface {
	Create(ctx context.Context, prediction *models.PredictionRecord) error
	CreateBatch(ctx context.Context, predictions []models.PredictionRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PredictionRecord, error)
	GetBySportAndDate(ctx context.Context, sport models.Sport, date time.Time) ([]models.PredictionRecord, error)
}

// OutcomeRepository stores realized results for settled games.
type OutcomeRepository interface {
	CreateBatch(ctx context.Context, outcomes []models.Outcome) error
	GetBySportAndDate(ctx context.Context, sport models.Sport, date time.Time) ([]models.Outcome, error)
}

// PerformanceRepository stores per-sport daily performance snapshots.
type PerformanceRepository interface {
	Upsert(ctx context.Context, snapshot *models.PerformanceSnapshot) error
	GetHistory(ctx context.Context, sport models.Sport, since time.Time) ([]models.PerformanceSnapshot, error)
}
