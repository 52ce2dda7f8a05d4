package uncertainty

import (
	"math"

	"github.com/masterkanin/sports-predictor/internal/config"
	"github.com/masterkanin/sports-predictor/internal/models"
)

const (
	// defaultMaxStd is the regression standard deviation treated as total
	// uncertainty when the configuration does not set one.
	defaultMaxStd = 10.0

	// neutralConfidence is returned when no uncertainty signal is
	// available at all.
	neutralConfidence = 50.0
)

// Scorer converts uncertainty estimates into 0-100 confidence scores.
type Scorer struct {
	maxStd float64
}

// NewScorer creates a confidence scorer from configuration.
func NewScorer(cfg config.UncertaintyConfig) *Scorer {
	maxStd := cfg.MaxExpectedStd
	if maxStd <= 0 {
		maxStd = defaultMaxStd
	}
	return &Scorer{maxStd: maxStd}
}

// Score maps per-row uncertainty to a confidence in [0, 100]. The regression
// spread is the primary signal: a standard deviation at or above the
// configured maximum scores 0, zero spread scores 100. When the regression
// spread is not finite the classification spread is used instead, and with
// no usable signal the score is a neutral 50.
func (s *Scorer) Score(regStd, clsStd float64) float64 {
	if !math.IsNaN(regStd) && !math.IsInf(regStd, 0) {
		ratio := math.Min(regStd/s.maxStd, 1.0)
		return 100.0 * (1.0 - ratio)
	}
	if !math.IsNaN(clsStd) && !math.IsInf(clsStd, 0) {
		return math.Max(0, 100.0*(1.0-2.0*clsStd))
	}
	return neutralConfidence
}

// Categorize buckets a 0-100 confidence score into its display category.
func Categorize(score float64) models.ConfidenceCategory {
	switch {
	case score >= 90:
		return models.ConfidenceVeryHigh
	case score >= 75:
		return models.ConfidenceHigh
	case score >= 50:
		return models.ConfidenceModerate
	case score >= 25:
		return models.ConfidenceLow
	default:
		return models.ConfidenceVeryLow
	}
}
