package monitoring

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"

	"github.com/masterkanin/sports-predictor/internal/config"
	"github.com/masterkanin/sports-predictor/internal/models"
)

const (
	defaultDriftWindowDays = 30
	defaultDriftThreshold  = 0.05
	driftMeanEpsilon       = 1e-10
)

// DriftDetector tracks per-sport input stat distributions and flags days
// whose distribution moved away from the trailing window. Distribution
// history is keyed by (sport, date) like performance snapshots and is
// persisted to a JSON file when a path is configured.
type DriftDetector struct {
	windowDays  int
	threshold   float64
	historyPath string
	logger      *logrus.Logger
	mu          sync.Mutex
	history     []models.DistributionSnapshot
}

// NewDriftDetector creates a drift detector. A configured history file is
// loaded immediately; a missing file just means no history yet.
func NewDriftDetector(cfg config.MonitoringConfig, logger *logrus.Logger) *DriftDetector {
	windowDays := cfg.DriftWindowDays
	if windowDays <= 0 {
		windowDays = defaultDriftWindowDays
	}
	threshold := cfg.AlertThresholds.DriftScore
	if threshold <= 0 {
		threshold = defaultDriftThreshold
	}
	d := &DriftDetector{
		windowDays:  windowDays,
		threshold:   threshold,
		historyPath: cfg.DriftHistoryPath,
		logger:      logger,
	}
	if d.historyPath != "" {
		if err := d.Load(d.historyPath); err != nil && !os.IsNotExist(err) {
			logger.WithError(err).Warn("Failed to load distribution history")
		}
	}
	return d
}

// Detect summarizes one day's collected records into a distribution
// snapshot, scores it against the trailing window, records it, and returns
// the score with an alert when the shift breaches the threshold. A day with
// no trailing history scores 0 and never alerts.
func (d *DriftDetector) Detect(sport models.Sport, date time.Time, records []models.GameRecord) (float64, *models.DriftAlert) {
	current := models.DistributionSnapshot{
		Sport: sport,
		Date:  date,
		Stats: computeDistribution(records),
	}

	d.mu.Lock()
	score := driftScore(current, d.history, d.windowDays)
	d.upsertLocked(current)
	d.mu.Unlock()

	if d.historyPath != "" {
		if err := d.Save(d.historyPath); err != nil {
			d.logger.WithError(err).Warn("Failed to save distribution history")
		}
	}

	DriftScore.WithLabelValues(string(sport)).Set(score)
	d.logger.WithFields(logrus.Fields{
		"sport":       sport,
		"date":        date.Format("2006-01-02"),
		"drift_score": score,
		"stats":       len(current.Stats),
	}).Info("Data drift scored")

	if score <= d.threshold {
		return score, nil
	}

	alert := &models.DriftAlert{
		Sport:     sport,
		Date:      date,
		Score:     score,
		Threshold: d.threshold,
		Message: fmt.Sprintf("input distribution drift %.4f exceeds threshold %.4f",
			score, d.threshold),
	}
	DriftAlertsTotal.WithLabelValues(string(sport)).Inc()
	d.logger.WithFields(logrus.Fields{
		"sport":       sport,
		"drift_score": score,
		"threshold":   d.threshold,
	}).Warn(alert.Message)
	return score, alert
}

// History returns the recorded distribution snapshots for one sport, oldest
// first.
func (d *DriftDetector) History(sport models.Sport) []models.DistributionSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []models.DistributionSnapshot
	for _, s := range d.history {
		if s.Sport == sport {
			out = append(out, s)
		}
	}
	return out
}

// Save writes the distribution history to a JSON file.
func (d *DriftDetector) Save(path string) error {
	d.mu.Lock()
	data, err := json.MarshalIndent(d.history, "", "  ")
	d.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to marshal distribution history: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write distribution history: %w", err)
	}
	return nil
}

// Load replaces the distribution history with a previously saved one.
func (d *DriftDetector) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var history []models.DistributionSnapshot
	if err := json.Unmarshal(data, &history); err != nil {
		return fmt.Errorf("failed to parse distribution history: %w", err)
	}
	d.mu.Lock()
	d.history = history
	d.mu.Unlock()
	return nil
}

func (d *DriftDetector) upsertLocked(snap models.DistributionSnapshot) {
	for i, s := range d.history {
		if s.Sport == snap.Sport && sameDay(s.Date, snap.Date) {
			d.history[i] = snap
			return
		}
	}
	d.history = append(d.history, snap)
}

// computeDistribution summarizes each reported stat across the records.
// Sparse stats only count the records that reported them.
func computeDistribution(records []models.GameRecord) map[string]models.StatDistribution {
	observed := make(map[string][]float64)
	for _, r := range records {
		for stat, v := range r.Stats {
			observed[stat] = append(observed[stat], v)
		}
	}

	out := make(map[string]models.StatDistribution, len(observed))
	for stat, values := range observed {
		mean, _ := stats.Mean(values)
		std, _ := stats.StandardDeviation(values)
		out[stat] = models.StatDistribution{Mean: mean, Std: std, Count: len(values)}
	}
	return out
}

// driftScore is the relative mean shift of the current distribution against
// the trailing window, averaged over stats present on both sides: for each
// shared stat, |mean_now - mean_hist| / max(|mean_hist|, eps), where
// mean_hist averages that stat's daily means across the window. Stats new to
// the history contribute nothing.
func driftScore(current models.DistributionSnapshot, history []models.DistributionSnapshot, windowDays int) float64 {
	trailing := trailingDistributions(current, history, windowDays)
	if len(trailing) == 0 {
		return 0
	}

	histSums := make(map[string]float64)
	histCounts := make(map[string]int)
	for _, s := range trailing {
		for stat, dist := range s.Stats {
			histSums[stat] += dist.Mean
			histCounts[stat]++
		}
	}

	var total float64
	var shared int
	for stat, dist := range current.Stats {
		n, ok := histCounts[stat]
		if !ok {
			continue
		}
		histMean := histSums[stat] / float64(n)
		total += math.Abs(dist.Mean-histMean) / math.Max(math.Abs(histMean), driftMeanEpsilon)
		shared++
	}
	if shared == 0 {
		return 0
	}
	return total / float64(shared)
}

// trailingDistributions returns the history entries for the same sport
// strictly before the current date and within windowDays of it.
func trailingDistributions(current models.DistributionSnapshot, history []models.DistributionSnapshot, windowDays int) []models.DistributionSnapshot {
	cutoff := current.Date.AddDate(0, 0, -windowDays)
	var trailing []models.DistributionSnapshot
	for _, s := range history {
		if s.Sport != current.Sport {
			continue
		}
		if s.Date.Before(current.Date) && !s.Date.Before(cutoff) {
			trailing = append(trailing, s)
		}
	}
	return trailing
}
