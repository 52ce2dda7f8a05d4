// Package scheduler runs the daily collection, prediction and tracking jobs
// on cron expressions.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/masterkanin/sports-predictor/internal/config"
	"github.com/masterkanin/sports-predictor/internal/service"
)

// Scheduler manages the recurring pipeline jobs
type Scheduler struct {
	cron         *cron.Cron
	predictorSvc *service.PredictorService
	logger       *logrus.Logger
	mu           sync.RWMutex
	isRunning    bool
	jobIDs       []cron.EntryID
	jobTimeout   time.Duration
}

// NewScheduler creates a new scheduler
func NewScheduler(predictorSvc *service.PredictorService, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:         cron.New(cron.WithLocation(time.UTC)),
		predictorSvc: predictorSvc,
		logger:       logger,
		jobIDs:       make([]cron.EntryID, 0),
		jobTimeout:   time.Hour,
	}
}

// ScheduleAll registers the collection, prediction and tracking jobs from the
// configured cron expressions.
func (s *Scheduler) ScheduleAll(schedule config.ScheduleConfig) error {
	if err := s.schedule("collection", schedule.DailyCollection, func(ctx context.Context) error {
		// Settle yesterday's games.
		return s.predictorSvc.RunDailyCollection(ctx, time.Now().UTC().AddDate(0, 0, -1))
	}); err != nil {
		return err
	}

	if err := s.schedule("prediction", schedule.DailyPrediction, func(ctx context.Context) error {
		_, err := s.predictorSvc.RunDailyPredictions(ctx, time.Now().UTC())
		return err
	}); err != nil {
		return err
	}

	return s.schedule("tracking", schedule.DailyTracking, func(ctx context.Context) error {
		_, err := s.predictorSvc.RunDailyTracking(ctx, time.Now().UTC().AddDate(0, 0, -1))
		return err
	})
}

func (s *Scheduler) schedule(name, cronExpression string, job func(context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(cronExpression, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()

		s.logger.WithField("job", name).Info("Scheduled job starting")
		if err := job(ctx); err != nil {
			s.logger.WithError(err).WithField("job", name).Error("Scheduled job failed")
			return
		}
		s.logger.WithField("job", name).Info("Scheduled job completed")
	})
	if err != nil {
		return fmt.Errorf("failed to schedule %s job: %w", name, err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{"job": name, "cron": cronExpression}).
		Info("Job scheduled")
	return nil
}

// Start begins executing scheduled jobs
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler already running")
	}
	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")
	return nil
}

// Stop halts job execution, waiting for running jobs to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")
}

// IsRunning reports whether the scheduler is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}
