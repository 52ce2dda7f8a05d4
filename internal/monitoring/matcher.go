// Package monitoring evaluates settled predictions against realized
// outcomes, computes rolling performance metrics per sport, and raises
// degradation alerts when quality drops against the trailing window.
package monitoring

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/masterkanin/sports-predictor/internal/models"
)

// outcomeKey joins predictions and outcomes on (player, stat, game date).
type outcomeKey struct {
	Player string
	Stat   string
	Date   string
}

func newOutcomeKey(player, stat string, date time.Time) outcomeKey {
	return outcomeKey{Player: player, Stat: stat, Date: date.Format("2006-01-02")}
}

// MatchOutcomes joins predictions with their realized outcomes. The join is
// best effort: predictions without a settled outcome and outcomes without a
// prediction are dropped, with counts logged so a systematically broken feed
// is still visible.
func MatchOutcomes(predictions []models.PredictionRecord, outcomes []models.Outcome, logger *logrus.Logger) []models.MatchedResult {
	byKey := make(map[outcomeKey]models.Outcome, len(outcomes))
	for _, o := range outcomes {
		byKey[newOutcomeKey(o.Player, o.Stat, o.GameDate)] = o
	}

	matched := make([]models.MatchedResult, 0, len(predictions))
	for _, p := range predictions {
		o, ok := byKey[newOutcomeKey(p.Player, p.Stat, p.GameDate)]
		if !ok {
			continue
		}

		result := models.MatchedResult{
			Player:          p.Player,
			Team:            p.Team,
			Opponent:        p.Opponent,
			GameDate:        p.GameDate,
			Stat:            p.Stat,
			PredictedValue:  p.PredictedValue,
			ActualValue:     o.ActualValue,
			OverProbability: p.OverProbability,
			Confidence:      p.Confidence,
			ConfidenceScore: p.ConfidenceScore,
		}
		if p.HasLine() {
			result.HasLine = true
			result.Line = *p.Line
			if o.ActualValue > *p.Line {
				result.ActualOver = 1
			}
		}
		matched = append(matched, result)
	}

	logger.WithFields(logrus.Fields{
		"predictions": len(predictions),
		"outcomes":    len(outcomes),
		"matched":     len(matched),
	}).Debug("Matched predictions against outcomes")

	return matched
}
