package models

import "time"

// PerformanceSnapshot holds the aggregated prediction metrics for one sport
// on one date. Snapshots are append-only: written once per (sport, date) and
// read back for trailing-window comparisons.
type PerformanceSnapshot struct {
	Sport            Sport     `db:"sport" json:"sport" validate:"required"`
	Date             time.Time `db:"date" json:"date" validate:"required"`
	MSE              float64   `db:"mse" json:"mse"`
	MAE              float64   `db:"mae" json:"mae"`
	RMSE             float64   `db:"rmse" json:"rmse"`
	WeightedMSE      float64   `db:"weighted_mse" json:"weighted_mse"`
	Accuracy         float64   `db:"accuracy" json:"accuracy"`
	AUC              float64   `db:"auc" json:"auc"`
	OverAccuracy     float64   `db:"over_accuracy" json:"over_accuracy"`
	UnderAccuracy    float64   `db:"under_accuracy" json:"under_accuracy"`
	CalibrationError float64   `db:"calibration_error" json:"calibration_error"`
	SampleCount      int       `db:"sample_count" json:"sample_count"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// DegradationAlert records a detected drop in prediction quality for a sport
// relative to its trailing window.
type DegradationAlert struct {
	Sport         Sport     `json:"sport"`
	Date          time.Time `json:"date"`
	Metric        string    `json:"metric"`
	CurrentValue  float64   `json:"current_value"`
	TrailingValue float64   `json:"trailing_value"`
	Message       string    `json:"message"`
}

// StatDistribution summarizes one stat's values across a day's collected
// records.
type StatDistribution struct {
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Count int     `json:"count"`
}

// DistributionSnapshot holds the per-stat input distributions for one sport
// on one date. Like performance snapshots, one per (sport, date).
type DistributionSnapshot struct {
	Sport Sport                       `json:"sport"`
	Date  time.Time                   `json:"date"`
	Stats map[string]StatDistribution `json:"stats"`
}

// DriftAlert records a shift in the input data distribution for a sport
// relative to its trailing window.
type DriftAlert struct {
	Sport     Sport     `json:"sport"`
	Date      time.Time `json:"date"`
	Score     float64   `json:"score"`
	Threshold float64   `json:"threshold"`
	Message   string    `json:"message"`
}
