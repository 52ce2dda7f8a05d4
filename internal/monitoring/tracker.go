package monitoring

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/masterkanin/sports-predictor/internal/config"
	"github.com/masterkanin/sports-predictor/internal/models"
)

// Tracker owns the per-sport performance history. Snapshots are keyed by
// (sport, date); re-tracking a day replaces that day's snapshot so a late
// outcome feed does not duplicate history.
type Tracker struct {
	cfg     config.MonitoringConfig
	logger  *logrus.Logger
	mu      sync.Mutex
	history []models.PerformanceSnapshot
}

// NewTracker creates a performance tracker.
func NewTracker(cfg config.MonitoringConfig, logger *logrus.Logger) *Tracker {
	return &Tracker{cfg: cfg, logger: logger}
}

// LoadHistory seeds the tracker from persisted snapshots, typically at
// startup.
func (t *Tracker) LoadHistory(snapshots []models.PerformanceSnapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.history = append(t.history, snapshots...)
}

// Track matches predictions against outcomes for one sport and date, records
// the resulting snapshot, and returns it with any degradation alerts.
func (t *Tracker) Track(sport models.Sport, date time.Time, predictions []models.PredictionRecord, outcomes []models.Outcome) (models.PerformanceSnapshot, []models.DegradationAlert) {
	matched := MatchOutcomes(predictions, outcomes, t.logger)
	snap := ComputeSnapshot(sport, date, matched)

	t.mu.Lock()
	alerts := detectDegradation(snap, t.history, t.cfg)
	t.upsertLocked(snap)
	t.mu.Unlock()

	ObserveSnapshot(snap)
	for _, alert := range alerts {
		DegradationAlertsTotal.WithLabelValues(string(alert.Sport), alert.Metric).Inc()
		t.logger.WithFields(logrus.Fields{
			"sport":    alert.Sport,
			"metric":   alert.Metric,
			"current":  alert.CurrentValue,
			"trailing": alert.TrailingValue,
		}).Warn(alert.Message)
	}

	t.logger.WithFields(logrus.Fields{
		"sport":    sport,
		"date":     date.Format("2006-01-02"),
		"matched":  snap.SampleCount,
		"mse":      snap.MSE,
		"accuracy": snap.Accuracy,
	}).Info("Performance snapshot recorded")

	return snap, alerts
}

// History returns the recorded snapshots for one sport, oldest first.
func (t *Tracker) History(sport models.Sport) []models.PerformanceSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []models.PerformanceSnapshot
	for _, s := range t.history {
		if s.Sport == sport {
			out = append(out, s)
		}
	}
	return out
}

func (t *Tracker) upsertLocked(snap models.PerformanceSnapshot) {
	for i, s := range t.history {
		if s.Sport == snap.Sport && sameDay(s.Date, snap.Date) {
			t.history[i] = snap
			return
		}
	}
	t.history = append(t.history, snap)
}
