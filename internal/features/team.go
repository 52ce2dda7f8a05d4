package features

import (
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"

	"github.com/masterkanin/sports-predictor/internal/models"
)

var (
	offensiveKeywords = []string{"score", "point", "goal", "run", "yard", "offensive"}
	defensiveKeywords = []string{"allowed", "defensive", "against"}
)

const (
	ratingRollingWindow = 5
	ratingTrendShort    = 3
	ratingTrendLong     = 10
)

// EngineerTeamFeatures transforms raw team game records into feature rows
// with strength ratings, rating trends and win streaks, ordered by
// (team, game date).
func (e *Engine) EngineerTeamFeatures(records []models.GameRecord) []models.FeatureRow {
	if len(records) == 0 {
		return nil
	}

	ordered := sortRecords(records)
	statNames := collectStatNames(ordered)
	rows := initRows(ordered, statNames)

	// Defensive keywords win when a name matches both lists
	// ("points_allowed" contains both "point" and "allowed").
	defensive := matchStats(statNames, defensiveKeywords)
	offensive := excludeStats(matchStats(statNames, offensiveKeywords), defensive)

	addNormalizedStats(ordered, rows, offensive, 1)
	addNormalizedStats(ordered, rows, defensive, -1)
	addRating(rows, "offensive_rating", normColumns(offensive))
	addRating(rows, "defensive_rating", normColumns(defensive))
	addTeamRating(rows)

	groups := groupByEntity(ordered)
	ratingCols := presentRatingColumns(rows)
	for _, group := range groups {
		for _, col := range ratingCols {
			addDerivedRolling(rows, group, col, ratingRollingWindow)
			addDerivedTrend(rows, group, col)
		}
		addWinStreak(ordered, rows, group)
	}

	e.logger.WithFields(logrus.Fields{
		"records":         len(ordered),
		"offensive_stats": len(offensive),
		"defensive_stats": len(defensive),
	}).Debug("Engineered team features")

	return rows
}

// matchStats returns stat names containing any of the keywords.
func matchStats(statNames []string, keywords []string) []string {
	var matched []string
	for _, stat := range statNames {
		lower := strings.ToLower(stat)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				matched = append(matched, stat)
				break
			}
		}
	}
	return matched
}

// excludeStats removes names present in the second list.
func excludeStats(statNames []string, exclude []string) []string {
	drop := make(map[string]bool, len(exclude))
	for _, s := range exclude {
		drop[s] = true
	}
	var kept []string
	for _, s := range statNames {
		if !drop[s] {
			kept = append(kept, s)
		}
	}
	return kept
}

// addNormalizedStats z-scores each stat across the whole table. Defensive
// stats use direction -1 so that allowing less reads as a better defense. A
// constant series normalizes to 0.
func addNormalizedStats(records []models.GameRecord, rows []models.FeatureRow, statNames []string, direction float64) {
	for _, stat := range statNames {
		var values []float64
		for _, rec := range records {
			if v, ok := rec.Stats[stat]; ok {
				values = append(values, v)
			}
		}
		mean, _ := stats.Mean(values)
		std, _ := stats.StandardDeviation(values)

		col := stat + "_norm"
		for i, rec := range records {
			if std <= 0 {
				rows[i].Features[col] = 0
				continue
			}
			v, ok := rec.Stats[stat]
			if !ok {
				rows[i].Features[col] = 0
				continue
			}
			rows[i].Features[col] = direction * (v - mean) / std
		}
	}
}

func normColumns(statNames []string) []string {
	cols := make([]string, len(statNames))
	for i, stat := range statNames {
		cols[i] = stat + "_norm"
	}
	return cols
}

// addRating sets the named rating to the row-wise mean of the normalized
// columns. No contributing columns means no rating.
func addRating(rows []models.FeatureRow, name string, cols []string) {
	if len(cols) == 0 {
		return
	}
	for i := range rows {
		sum := 0.0
		for _, col := range cols {
			sum += rows[i].Features[col]
		}
		rows[i].Features[name] = sum / float64(len(cols))
	}
}

// addTeamRating averages offensive and defensive ratings when both exist.
func addTeamRating(rows []models.FeatureRow) {
	if len(rows) == 0 {
		return
	}
	_, hasOff := rows[0].Features["offensive_rating"]
	_, hasDef := rows[0].Features["defensive_rating"]
	if !hasOff || !hasDef {
		return
	}
	for i := range rows {
		rows[i].Features["team_rating"] = (rows[i].Features["offensive_rating"] + rows[i].Features["defensive_rating"]) / 2
	}
}

// presentRatingColumns returns the rating columns actually materialized plus
// any win-related base columns.
func presentRatingColumns(rows []models.FeatureRow) []string {
	if len(rows) == 0 {
		return nil
	}
	var cols []string
	for _, col := range []string{"offensive_rating", "defensive_rating", "team_rating"} {
		if _, ok := rows[0].Features[col]; ok {
			cols = append(cols, col)
		}
	}
	for col := range rows[0].Features {
		if strings.Contains(strings.ToLower(col), "win") && !strings.Contains(col, "_rolling_") && !strings.Contains(col, "_trend") {
			cols = append(cols, col)
		}
	}
	sort.Strings(cols)
	return cols
}

// addDerivedRolling computes the shifted rolling mean of an engineered
// column for one team group.
func addDerivedRolling(rows []models.FeatureRow, group []int, col string, w int) {
	name := rollingName(col, w)
	means := shiftedRollingMeans(rows, group, col, w)
	for pos, idx := range group {
		rows[idx].Features[name] = means[pos]
	}
}

// addDerivedTrend computes short-minus-long shifted rolling means for an
// engineered column, the team-side form trend.
func addDerivedTrend(rows []models.FeatureRow, group []int, col string) {
	short := shiftedRollingMeans(rows, group, col, ratingTrendShort)
	long := shiftedRollingMeans(rows, group, col, ratingTrendLong)
	name := col + "_trend"
	for pos, idx := range group {
		rows[idx].Features[name] = short[pos] - long[pos]
	}
}

// shiftedRollingMeans returns, per group position, the mean of the column
// over the preceding w rows (0 when no history exists).
func shiftedRollingMeans(rows []models.FeatureRow, group []int, col string, w int) []float64 {
	out := make([]float64, len(group))
	for pos := range group {
		start := pos - w
		if start < 0 {
			start = 0
		}
		sum := 0.0
		count := 0
		for p := start; p < pos; p++ {
			sum += rows[group[p]].Features[col]
			count++
		}
		if count > 0 {
			out[pos] = sum / float64(count)
		}
	}
	return out
}

// addWinStreak computes the consecutive-wins run length from the win/loss
// field, reset to 0 on any loss. The streak includes the current game.
func addWinStreak(records []models.GameRecord, rows []models.FeatureRow, group []int) {
	streak := 0.0
	for _, idx := range group {
		if records[idx].Won() {
			streak++
		} else {
			streak = 0
		}
		rows[idx].Features["win_streak"] = streak
		rows[idx].Features["win_binary"] = boolFeature(records[idx].Won())
	}
}
