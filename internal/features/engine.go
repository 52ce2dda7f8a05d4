// Package features converts ordered per-entity game histories into
// model-ready temporal feature tables. Every derived column is computed from
// strictly historical rows: series are shifted by one game before any
// windowing, so a row's features never see its own game.
package features

import (
	"math"
	"sort"
	"strconv"

	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"

	"github.com/masterkanin/sports-predictor/internal/config"
	"github.com/masterkanin/sports-predictor/internal/models"
)

const (
	trendWindow      = 5
	trendStdMinCount = 2
	defaultFirstRest = 3.0
	backToBackMax    = 1.0
	longRestMin      = 4.0
)

// Engine builds temporal features from raw game records.
type Engine struct {
	windows          []int
	matchupStatLimit int
	homeAwayWindow   int
	logger           *logrus.Logger
}

// NewEngine creates a feature engine from configuration.
func NewEngine(cfg config.FeaturesConfig, logger *logrus.Logger) *Engine {
	windows := cfg.RollingWindowSizes
	if len(windows) == 0 {
		windows = []int{3, 5, 10}
	}
	matchupLimit := cfg.MatchupStatLimit
	if matchupLimit <= 0 {
		matchupLimit = 3
	}
	homeAwayWindow := cfg.HomeAwayWindow
	if homeAwayWindow <= 0 {
		homeAwayWindow = 10
	}
	return &Engine{
		windows:          windows,
		matchupStatLimit: matchupLimit,
		homeAwayWindow:   homeAwayWindow,
		logger:           logger,
	}
}

// EngineerPlayerFeatures transforms raw player game records into feature
// rows, ordered by (entity, game date). Rows with insufficient history carry
// 0 in the affected columns.
func (e *Engine) EngineerPlayerFeatures(records []models.GameRecord) []models.FeatureRow {
	if len(records) == 0 {
		return nil
	}

	ordered := sortRecords(records)
	statNames := collectStatNames(ordered)
	rows := initRows(ordered, statNames)

	for _, group := range groupByEntity(ordered) {
		e.addRollingAverages(ordered, rows, group, statNames)
		e.addTrendFeatures(ordered, rows, group, statNames)
		e.addHomeAwayFeatures(ordered, rows, group, statNames)
		e.addRestFeatures(ordered, rows, group)
		e.addMatchupFeatures(ordered, rows, group, statNames)
	}

	e.logger.WithFields(logrus.Fields{
		"records": len(ordered),
		"stats":   len(statNames),
	}).Debug("Engineered player features")

	return rows
}

// addRollingAverages computes, per window size, the mean of the preceding w
// games for each stat. The current game is excluded; a single prior game is
// enough to produce a value.
func (e *Engine) addRollingAverages(records []models.GameRecord, rows []models.FeatureRow, group []int, statNames []string) {
	for _, stat := range statNames {
		for _, w := range e.windows {
			name := rollingName(stat, w)
			for pos, idx := range group {
				if mean, ok := priorWindowMean(records, group, pos, stat, w); ok {
					rows[idx].Features[name] = mean
				} else {
					rows[idx].Features[name] = 0
				}
			}
		}
	}
}

// addTrendFeatures computes the difference between the most recent prior
// value and the mean of the five games before it, plus a five-game sample
// standard deviation as a consistency signal. Rolling columns are never
// re-processed; the trend is always taken over the raw stat.
func (e *Engine) addTrendFeatures(records []models.GameRecord, rows []models.FeatureRow, group []int, statNames []string) {
	for _, stat := range statNames {
		trendCol := stat + "_trend"
		stdCol := stat + "_std_5"
		for pos, idx := range group {
			prev, prevOK := recordStat(records, group, pos-1, stat)
			baseline, baseOK := windowMean(records, group, pos-2, stat, trendWindow)
			if prevOK && baseOK {
				rows[idx].Features[trendCol] = prev - baseline
			} else {
				rows[idx].Features[trendCol] = 0
			}

			values := windowValues(records, group, pos-1, stat, trendWindow)
			if len(values) >= trendStdMinCount {
				std, err := stats.StandardDeviationSample(values)
				if err == nil && !math.IsNaN(std) {
					rows[idx].Features[stdCol] = std
				} else {
					rows[idx].Features[stdCol] = 0
				}
			} else {
				rows[idx].Features[stdCol] = 0
			}
		}
	}
}

// addHomeAwayFeatures computes the binary home indicator plus running
// historical averages over home-only and away-only prior games and their
// difference.
func (e *Engine) addHomeAwayFeatures(records []models.GameRecord, rows []models.FeatureRow, group []int, statNames []string) {
	for _, idx := range group {
		if records[idx].IsHome() {
			rows[idx].Features["is_home"] = 1
		} else {
			rows[idx].Features["is_home"] = 0
		}
	}

	for _, stat := range statNames {
		homeCol := stat + "_home_avg"
		awayCol := stat + "_away_avg"
		diffCol := stat + "_home_away_diff"
		for pos, idx := range group {
			homeAvg, homeOK := venueWindowMean(records, group, pos, stat, e.homeAwayWindow, true)
			awayAvg, awayOK := venueWindowMean(records, group, pos, stat, e.homeAwayWindow, false)
			if !homeOK {
				homeAvg = 0
			}
			if !awayOK {
				awayAvg = 0
			}
			rows[idx].Features[homeCol] = homeAvg
			rows[idx].Features[awayCol] = awayAvg
			rows[idx].Features[diffCol] = homeAvg - awayAvg
		}
	}
}

// addRestFeatures computes days since the previous game and the derived
// back-to-back and long-rest indicators. A first-ever game gets the assumed
// average rest of 3 days.
func (e *Engine) addRestFeatures(records []models.GameRecord, rows []models.FeatureRow, group []int) {
	for pos, idx := range group {
		rest := defaultFirstRest
		if pos > 0 {
			prev := records[group[pos-1]]
			rest = records[idx].GameDate.Sub(prev.GameDate).Hours() / 24
		}
		rows[idx].Features["days_rest"] = rest
		rows[idx].Features["is_back_to_back"] = boolFeature(rest <= backToBackMax)
		rows[idx].Features["is_long_rest"] = boolFeature(rest >= longRestMin)
	}
}

// addMatchupFeatures computes, for a bounded set of key stats, the entity's
// expanding historical average against the current opponent, shifted by one
// game.
func (e *Engine) addMatchupFeatures(records []models.GameRecord, rows []models.FeatureRow, group []int, statNames []string) {
	keyStats := statNames
	if len(keyStats) > e.matchupStatLimit {
		keyStats = keyStats[:e.matchupStatLimit]
	}

	for _, stat := range keyStats {
		col := stat + "_vs_opp_avg"
		// Running per-opponent sums over prior games only.
		sums := make(map[string]float64)
		counts := make(map[string]int)
		for _, idx := range group {
			opp := records[idx].Opponent
			if counts[opp] > 0 {
				rows[idx].Features[col] = sums[opp] / float64(counts[opp])
			} else {
				rows[idx].Features[col] = 0
			}
			if v, ok := records[idx].Stats[stat]; ok {
				sums[opp] += v
				counts[opp]++
			}
		}
	}
}

// sortRecords returns records ordered by (entity, game date), input order
// preserved for ties.
func sortRecords(records []models.GameRecord) []models.GameRecord {
	ordered := make([]models.GameRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].EntityID != ordered[j].EntityID {
			return ordered[i].EntityID < ordered[j].EntityID
		}
		return ordered[i].GameDate.Before(ordered[j].GameDate)
	})
	return ordered
}

// collectStatNames returns the sorted union of stat names across records.
// Sorting keeps column selection (matchup key stats in particular)
// deterministic.
func collectStatNames(records []models.GameRecord) []string {
	seen := make(map[string]bool)
	for _, rec := range records {
		for stat := range rec.Stats {
			seen[stat] = true
		}
	}
	names := make([]string, 0, len(seen))
	for stat := range seen {
		names = append(names, stat)
	}
	sort.Strings(names)
	return names
}

// initRows materializes one feature row per record with the raw stats copied
// in. Missing raw stats become 0, mirroring the final zero-fill.
func initRows(records []models.GameRecord, statNames []string) []models.FeatureRow {
	rows := make([]models.FeatureRow, len(records))
	for i, rec := range records {
		feats := make(map[string]float64, len(statNames)*8)
		for _, stat := range statNames {
			feats[stat] = rec.Stats[stat]
		}
		rows[i] = models.FeatureRow{
			EntityID:   rec.EntityID,
			EntityName: rec.EntityName,
			Team:       rec.Team,
			Opponent:   rec.Opponent,
			GameDate:   rec.GameDate,
			StatType:   rec.StatType,
			Features:   feats,
		}
	}
	return rows
}

// groupByEntity returns, per entity, the indices of its records in date
// order. Records must already be sorted by (entity, date).
func groupByEntity(records []models.GameRecord) [][]int {
	var groups [][]int
	for i := range records {
		if i == 0 || records[i].EntityID != records[i-1].EntityID {
			groups = append(groups, []int{i})
			continue
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], i)
	}
	return groups
}

// priorWindowMean averages the stat over the w games preceding position pos
// in the group. Games where the stat is absent are skipped; at least one
// present value is required.
func priorWindowMean(records []models.GameRecord, group []int, pos int, stat string, w int) (float64, bool) {
	return windowMean(records, group, pos-1, stat, w)
}

// windowMean averages the stat over group positions [end-w+1, end].
func windowMean(records []models.GameRecord, group []int, end int, stat string, w int) (float64, bool) {
	values := windowValues(records, group, end, stat, w)
	if len(values) == 0 {
		return 0, false
	}
	mean, err := stats.Mean(values)
	if err != nil {
		return 0, false
	}
	return mean, true
}

// windowValues collects present stat values over group positions
// [end-w+1, end].
func windowValues(records []models.GameRecord, group []int, end int, stat string, w int) []float64 {
	if end < 0 {
		return nil
	}
	start := end - w + 1
	if start < 0 {
		start = 0
	}
	var values []float64
	for pos := start; pos <= end && pos < len(group); pos++ {
		if v, ok := records[group[pos]].Stats[stat]; ok {
			values = append(values, v)
		}
	}
	return values
}

// recordStat returns the stat value at a group position, if present.
func recordStat(records []models.GameRecord, group []int, pos int, stat string) (float64, bool) {
	if pos < 0 || pos >= len(group) {
		return 0, false
	}
	v, ok := records[group[pos]].Stats[stat]
	return v, ok
}

// venueWindowMean averages the stat over the most recent prior games at the
// requested venue, bounded by the window size.
func venueWindowMean(records []models.GameRecord, group []int, pos int, stat string, w int, home bool) (float64, bool) {
	var values []float64
	for p := pos - 1; p >= 0 && len(values) < w; p-- {
		rec := records[group[p]]
		if rec.IsHome() != home {
			continue
		}
		if v, ok := rec.Stats[stat]; ok {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return 0, false
	}
	mean, err := stats.Mean(values)
	if err != nil {
		return 0, false
	}
	return mean, true
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func rollingName(stat string, w int) string {
	return stat + "_rolling_" + strconv.Itoa(w)
}
