package pipeline

import "github.com/masterkanin/sports-predictor/internal/models"

// defaultFactors pad the explanation list when the feature row does not
// surface three concrete signals.
var defaultFactors = []string{
	"Historical performance trend",
	"Matchup analysis",
	"Recent usage rate",
}

// topFactors derives up to three human-readable drivers of a prediction from
// the engineered feature row: recent form against the predicted value, venue,
// rest situation and opponent defensive strength, in that priority order.
func topFactors(row models.FeatureRow, predictedValue float64) []string {
	var factors []string

	if recent, ok := row.Features["points_rolling_5"]; ok {
		if recent > predictedValue {
			factors = append(factors, "Recent scoring below average")
		} else if recent < predictedValue {
			factors = append(factors, "Recent scoring above average")
		}
	}

	if isHome, ok := row.Features["is_home"]; ok {
		if isHome == 1 {
			factors = append(factors, "Home game advantage")
		} else {
			factors = append(factors, "Away game factor")
		}
	}

	if rest, ok := row.Features["days_rest"]; ok {
		if rest <= 1 {
			factors = append(factors, "Playing on short rest")
		} else if rest >= 3 {
			factors = append(factors, "Well-rested player")
		}
	}

	if oppDef, ok := row.Features["opponent_team_defensive_rating_rolling_5"]; ok {
		if oppDef > 0 {
			factors = append(factors, "Weak opponent defense")
		} else {
			factors = append(factors, "Strong opponent defense")
		}
	}

	for _, fallback := range defaultFactors {
		if len(factors) >= 3 {
			break
		}
		factors = append(factors, fallback)
	}
	if len(factors) > 3 {
		factors = factors[:3]
	}
	return factors
}
