package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/masterkanin/sports-predictor/internal/models"
)

var (
	// SnapshotMSE exposes the latest regression MSE per sport
	SnapshotMSE = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "sports_predictor",
			Name:      "performance_mse",
			Help:      "Latest prediction MSE per sport",
		},
		[]string{"sport"},
	)

	// SnapshotAccuracy exposes the latest over/under accuracy per sport
	SnapshotAccuracy = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "sports_predictor",
			Name:      "performance_accuracy",
			Help:      "Latest over/under accuracy per sport",
		},
		[]string{"sport"},
	)

	// SnapshotCalibrationError exposes the latest calibration error per sport
	SnapshotCalibrationError = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "sports_predictor",
			Name:      "performance_calibration_error",
			Help:      "Latest calibration error per sport",
		},
		[]string{"sport"},
	)

	// MatchedSamplesTotal counts matched prediction/outcome pairs
	MatchedSamplesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sports_predictor",
			Name:      "matched_samples_total",
			Help:      "Total prediction/outcome pairs evaluated",
		},
		[]string{"sport"},
	)

	// DegradationAlertsTotal counts degradation alerts raised
	DegradationAlertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sports_predictor",
			Name:      "degradation_alerts_total",
			Help:      "Total model degradation alerts raised",
		},
		[]string{"sport", "metric"},
	)

	// DriftScore exposes the latest input distribution drift score per sport
	DriftScore = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "sports_predictor",
			Name:      "data_drift_score",
			Help:      "Latest input data drift score per sport",
		},
		[]string{"sport"},
	)

	// DriftAlertsTotal counts data drift alerts raised
	DriftAlertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sports_predictor",
			Name:      "drift_alerts_total",
			Help:      "Total data drift alerts raised",
		},
		[]string{"sport"},
	)
)

// ObserveSnapshot publishes one snapshot's headline metrics.
func ObserveSnapshot(snap models.PerformanceSnapshot) {
	sport := string(snap.Sport)
	SnapshotMSE.WithLabelValues(sport).Set(snap.MSE)
	SnapshotAccuracy.WithLabelValues(sport).Set(snap.Accuracy)
	SnapshotCalibrationError.WithLabelValues(sport).Set(snap.CalibrationError)
	MatchedSamplesTotal.WithLabelValues(sport).Add(float64(snap.SampleCount))
}
