// Package service wires collection, prediction and tracking into the jobs
// the scheduler and CLI run.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/masterkanin/sports-predictor/internal/collectors"
	"github.com/masterkanin/sports-predictor/internal/models"
	"github.com/masterkanin/sports-predictor/internal/monitoring"
	"github.com/masterkanin/sports-predictor/internal/pipeline"
	"github.com/masterkanin/sports-predictor/internal/repository"
)

// PredictorService runs the daily collect, predict and track jobs.
type PredictorService struct {
	manager     *collectors.Manager
	pipeline    *pipeline.Pipeline
	tracker     *monitoring.Tracker
	drift       *monitoring.DriftDetector
	predictions repository.PredictionRepository
	outcomes    repository.OutcomeRepository
	performance repository.PerformanceRepository
	logger      *logrus.Logger
}

// NewPredictorService creates the orchestration service. The repositories may
// be nil, in which case results are computed but not persisted.
func NewPredictorService(
	manager *collectors.Manager,
	p *pipeline.Pipeline,
	tracker *monitoring.Tracker,
	drift *monitoring.DriftDetector,
	predictions repository.PredictionRepository,
	outcomes repository.OutcomeRepository,
	performance repository.PerformanceRepository,
	logger *logrus.Logger,
) *PredictorService {
	return &PredictorService{
		manager:     manager,
		pipeline:    p,
		tracker:     tracker,
		drift:       drift,
		predictions: predictions,
		outcomes:    outcomes,
		performance: performance,
		logger:      logger,
	}
}

// RunDailyCollection collects settled results for a date and persists them as
// outcomes for later tracking.
func (s *PredictorService) RunDailyCollection(ctx context.Context, date time.Time) error {
	bundles := s.manager.CollectAll(ctx, date)
	if len(bundles) == 0 {
		return fmt.Errorf("no sport produced data for %s", date.Format("2006-01-02"))
	}

	for sport, bundle := range bundles {
		if s.drift != nil {
			s.drift.Detect(sport, date, bundle.PlayerStats)
		}

		outcomes := outcomesFromRecords(sport, bundle.PlayerStats)
		if s.outcomes != nil {
			if err := s.outcomes.CreateBatch(ctx, outcomes); err != nil {
				s.logger.WithError(err).WithField("sport", sport).
					Error("Failed to persist outcomes")
				continue
			}
		}
		s.logger.WithFields(logrus.Fields{"sport": sport, "outcomes": len(outcomes)}).
			Info("Collection completed")
	}
	return nil
}

// RunDailyPredictions collects current data and generates predictions for
// every configured sport.
func (s *PredictorService) RunDailyPredictions(ctx context.Context, date time.Time) (map[models.Sport][]models.PredictionRecord, error) {
	bundles := s.manager.CollectAll(ctx, date)
	if len(bundles) == 0 {
		return nil, fmt.Errorf("no sport produced data for %s", date.Format("2006-01-02"))
	}

	data := make(map[models.Sport]pipeline.SportData, len(bundles))
	for sport, bundle := range bundles {
		data[sport] = pipeline.SportData{
			Records: collectors.ActivePlayers(bundle.PlayerStats, bundle.Injuries),
			Lines:   bundle.PropLines,
		}
	}

	results := s.pipeline.PredictAll(ctx, data)

	if s.predictions != nil {
		for sport, predictions := range results {
			if err := s.predictions.CreateBatch(ctx, predictions); err != nil {
				s.logger.WithError(err).WithField("sport", sport).
					Error("Failed to persist predictions")
			}
		}
	}
	return results, nil
}

// RunDailyTracking matches stored predictions for a date against collected
// outcomes and records performance snapshots.
func (s *PredictorService) RunDailyTracking(ctx context.Context, date time.Time) ([]models.PerformanceSnapshot, error) {
	if s.predictions == nil {
		return nil, fmt.Errorf("tracking requires a prediction store")
	}

	bundles := s.manager.CollectAll(ctx, date)

	var snapshots []models.PerformanceSnapshot
	for sport, bundle := range bundles {
		predictions, err := s.predictions.GetBySportAndDate(ctx, sport, date)
		if err != nil {
			s.logger.WithError(err).WithField("sport", sport).
				Error("Failed to load predictions for tracking")
			continue
		}
		if len(predictions) == 0 {
			continue
		}

		outcomes := outcomesFromRecords(sport, bundle.PlayerStats)
		if s.outcomes != nil {
			if err := s.outcomes.CreateBatch(ctx, outcomes); err != nil {
				s.logger.WithError(err).WithField("sport", sport).
					Warn("Failed to persist outcomes")
			}
		}

		snap, _ := s.tracker.Track(sport, date, predictions, outcomes)
		if s.performance != nil {
			if err := s.performance.Upsert(ctx, &snap); err != nil {
				s.logger.WithError(err).WithField("sport", sport).
					Error("Failed to persist performance snapshot")
			}
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}

// outcomesFromRecords turns settled box scores into outcome rows, one per
// record using its headline stat.
func outcomesFromRecords(sport models.Sport, records []models.GameRecord) []models.Outcome {
	outcomes := make([]models.Outcome, 0, len(records))
	for _, r := range records {
		if r.StatType == "" {
			continue
		}
		value, ok := r.Stat(r.StatType)
		if !ok {
			continue
		}
		outcomes = append(outcomes, models.Outcome{
			Sport:       sport,
			Player:      r.EntityName,
			Stat:        r.StatType,
			GameDate:    r.GameDate,
			ActualValue: value,
		})
	}
	return outcomes
}
