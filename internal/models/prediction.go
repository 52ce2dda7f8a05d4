package models

import (
	"time"

	"github.com/google/uuid"
)

// ConfidenceCategory is the 5-level ordinal confidence label attached to a
// prediction.
type ConfidenceCategory string

const (
	ConfidenceVeryHigh ConfidenceCategory = "Very High"
	ConfidenceHigh     ConfidenceCategory = "High"
	ConfidenceModerate ConfidenceCategory = "Moderate"
	ConfidenceLow      ConfidenceCategory = "Low"
	ConfidenceVeryLow  ConfidenceCategory = "Very Low"
)

// PredictionRecord is one formatted prop prediction for one entity and stat
// type on one date. Numeric fields are finite floats; callers guard against
// NaN/Inf upstream.
type PredictionRecord struct {
	ID              uuid.UUID          `db:"id" json:"id" validate:"required,uuid4"`
	Sport           Sport              `db:"sport" json:"sport" validate:"required"`
	Player          string             `db:"player" json:"player" validate:"required"`
	Team            string             `db:"team" json:"team"`
	Opponent        string             `db:"opponent" json:"opponent"`
	GameDate        time.Time          `db:"game_date" json:"date" validate:"required"`
	Stat            string             `db:"stat" json:"stat" validate:"required"`
	PredictedValue  float64            `db:"predicted_value" json:"predicted_value"`
	OverProbability float64            `db:"over_probability" json:"over_probability" validate:"gte=0,lte=1"`
	Line            *float64           `db:"line" json:"line"`
	Confidence      ConfidenceCategory `db:"confidence" json:"confidence"`
	ConfidenceScore float64            `db:"confidence_score" json:"confidence_score" validate:"gte=0,lte=100"`
	PredictionRange [2]float64         `db:"prediction_range" json:"prediction_range"`
	TopFactors      []string           `db:"top_factors" json:"top_factors"`
	PredictedAt     time.Time          `db:"predicted_at" json:"predicted_at"`
}

// HasLine reports whether a sportsbook line was matched for this prediction.
func (p *PredictionRecord) HasLine() bool {
	return p.Line != nil
}

// Recommendation returns "over" or "under" based on the classification head.
func (p *PredictionRecord) Recommendation() string {
	if p.OverProbability > 0.5 {
		return "over"
	}
	return "under"
}

// UncertaintyEstimate is the distributional output of one uncertainty pass
// over a batch of prediction items. All slices are indexed by input row.
// Estimates are ephemeral: they feed PredictionRecord fields and are not
// persisted on their own.
type UncertaintyEstimate struct {
	RegressionMean        []float64
	RegressionStd         []float64
	RegressionLower       []float64
	RegressionUpper       []float64
	ClassificationMean    []float64
	ClassificationStd     []float64
	ClassificationEntropy []float64
}

// Len returns the number of items in the estimate.
func (u *UncertaintyEstimate) Len() int {
	return len(u.RegressionMean)
}
