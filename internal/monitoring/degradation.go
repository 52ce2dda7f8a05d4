package monitoring

import (
	"fmt"
	"time"

	"github.com/masterkanin/sports-predictor/internal/config"
	"github.com/masterkanin/sports-predictor/internal/models"
)

// detectDegradation compares a fresh snapshot against the mean of the
// trailing window and returns an alert per breached metric. With no trailing
// history there is nothing to compare against and no alert fires.
func detectDegradation(current models.PerformanceSnapshot, history []models.PerformanceSnapshot, cfg config.MonitoringConfig) []models.DegradationAlert {
	trailing := trailingSnapshots(current, history, cfg.TrailingWindowDays)
	if len(trailing) == 0 {
		return nil
	}

	var alerts []models.DegradationAlert

	var mseSum, accSum float64
	var accCount int
	for _, s := range trailing {
		mseSum += s.MSE
		if s.Accuracy > 0 {
			accSum += s.Accuracy
			accCount++
		}
	}
	trailingMSE := mseSum / float64(len(trailing))

	if trailingMSE > 0 && current.MSE > trailingMSE*(1+cfg.AlertThresholds.MSEIncrease) {
		alerts = append(alerts, models.DegradationAlert{
			Sport:         current.Sport,
			Date:          current.Date,
			Metric:        "mse",
			CurrentValue:  current.MSE,
			TrailingValue: trailingMSE,
			Message: fmt.Sprintf("MSE %.4f exceeds trailing mean %.4f by more than %.0f%%",
				current.MSE, trailingMSE, cfg.AlertThresholds.MSEIncrease*100),
		})
	}

	if accCount > 0 && current.Accuracy > 0 {
		trailingAcc := accSum / float64(accCount)
		if current.Accuracy < trailingAcc*(1-cfg.AlertThresholds.AccuracyDecrease) {
			alerts = append(alerts, models.DegradationAlert{
				Sport:         current.Sport,
				Date:          current.Date,
				Metric:        "accuracy",
				CurrentValue:  current.Accuracy,
				TrailingValue: trailingAcc,
				Message: fmt.Sprintf("accuracy %.4f below trailing mean %.4f by more than %.0f%%",
					current.Accuracy, trailingAcc, cfg.AlertThresholds.AccuracyDecrease*100),
			})
		}
	}

	return alerts
}

// trailingSnapshots returns history entries for the same sport strictly
// before the current date and within windowDays of it.
func trailingSnapshots(current models.PerformanceSnapshot, history []models.PerformanceSnapshot, windowDays int) []models.PerformanceSnapshot {
	cutoff := current.Date.AddDate(0, 0, -windowDays)
	var trailing []models.PerformanceSnapshot
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

// sameDay reports whether two snapshot dates fall on the same calendar day.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
