package monitoring

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"github.com/masterkanin/sports-predictor/internal/models"
)

// calibrationBins are the over-probability bucket edges used for the
// calibration error.
var calibrationBins = []float64{0.0, 0.2, 0.4, 0.6, 0.8, 1.0}

// ComputeSnapshot aggregates matched results for one sport and date into a
// performance snapshot. Regression metrics cover every matched row;
// classification metrics cover only rows that carried a sportsbook line.
func ComputeSnapshot(sport models.Sport, date time.Time, matched []models.MatchedResult) models.PerformanceSnapshot {
	snap := models.PerformanceSnapshot{
		Sport:       sport,
		Date:        date,
		SampleCount: len(matched),
		CreatedAt:   time.Now().UTC(),
	}
	if len(matched) == 0 {
		return snap
	}

	var sumSq, sumAbs, sumWeighted, weightTotal float64
	for _, m := range matched {
		err := m.PredictedValue - m.ActualValue
		sumSq += err * err
		sumAbs += math.Abs(err)

		w := m.ConfidenceScore / 100.0
		sumWeighted += w * err * err
		weightTotal += w
	}
	n := float64(len(matched))
	snap.MSE = sumSq / n
	snap.MAE = sumAbs / n
	snap.RMSE = math.Sqrt(snap.MSE)
	if weightTotal > 0 {
		snap.WeightedMSE = sumWeighted / weightTotal
	} else {
		snap.WeightedMSE = snap.MSE
	}

	lined := withLines(matched)
	if len(lined) == 0 {
		return snap
	}

	snap.Accuracy = directionAccuracy(lined)
	snap.OverAccuracy, snap.UnderAccuracy = sidedAccuracy(lined)
	snap.AUC = aucScore(lined)
	snap.CalibrationError = calibrationError(lined)
	return snap
}

func withLines(matched []models.MatchedResult) []models.MatchedResult {
	lined := make([]models.MatchedResult, 0, len(matched))
	for _, m := range matched {
		if m.HasLine {
			lined = append(lined, m)
		}
	}
	return lined
}

// directionAccuracy is the fraction of line-bearing predictions whose
// over/under call matched the realized side.
func directionAccuracy(lined []models.MatchedResult) float64 {
	correct := 0
	for _, m := range lined {
		predictedOver := 0
		if m.OverProbability > 0.5 {
			predictedOver = 1
		}
		if predictedOver == m.ActualOver {
			correct++
		}
	}
	return float64(correct) / float64(len(lined))
}

// sidedAccuracy splits accuracy by the realized side: among games that
// landed over, the fraction called over; among games that landed under, the
// fraction called under. An empty subpopulation scores 0.
func sidedAccuracy(lined []models.MatchedResult) (over, under float64) {
	var overGames, overHits, underGames, underHits int
	for _, m := range lined {
		calledOver := m.OverProbability > 0.5
		if m.ActualOver == 1 {
			overGames++
			if calledOver {
				overHits++
			}
		} else {
			underGames++
			if !calledOver {
				underHits++
			}
		}
	}
	if overGames > 0 {
		over = float64(overHits) / float64(overGames)
	}
	if underGames > 0 {
		under = float64(underHits) / float64(underGames)
	}
	return over, under
}

// aucScore computes the ROC AUC of the over-probabilities against realized
// over outcomes. With only one outcome class present the curve is undefined
// and the score is 0.
func aucScore(lined []models.MatchedResult) float64 {
	var positives, negatives int
	for _, m := range lined {
		if m.ActualOver == 1 {
			positives++
		} else {
			negatives++
		}
	}
	if positives == 0 || negatives == 0 {
		return 0
	}

	sorted := make([]models.MatchedResult, len(lined))
	copy(sorted, lined)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].OverProbability < sorted[j].OverProbability
	})

	y := make([]float64, len(sorted))
	classes := make([]bool, len(sorted))
	for i, m := range sorted {
		y[i] = m.OverProbability
		classes[i] = m.ActualOver == 1
	}

	tpr, fpr, _ := stat.ROC(nil, y, classes, nil)
	return integrate.Trapezoidal(fpr, tpr)
}

// calibrationError buckets over-probabilities into fixed bins and averages,
// over the non-empty bins, the gap between the mean predicted probability and
// the realized over rate.
func calibrationError(lined []models.MatchedResult) float64 {
	var total float64
	var nonEmpty int
	for b := 0; b < len(calibrationBins)-1; b++ {
		lo, hi := calibrationBins[b], calibrationBins[b+1]

		var probSum, overSum float64
		var count int
		for _, m := range lined {
			inBin := m.OverProbability >= lo && m.OverProbability < hi
			// The top bin is closed so p=1.0 is not dropped.
			if b == len(calibrationBins)-2 {
				inBin = m.OverProbability >= lo && m.OverProbability <= hi
			}
			if inBin {
				probSum += m.OverProbability
				overSum += float64(m.ActualOver)
				count++
			}
		}
		if count == 0 {
			continue
		}
		total += math.Abs(probSum/float64(count) - overSum/float64(count))
		nonEmpty++
	}
	if nonEmpty == 0 {
		return 0
	}
	return total / float64(nonEmpty)
}
