package features

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masterkanin/sports-predictor/internal/config"
	"github.com/masterkanin/sports-predictor/internal/models"
)

func testEngine() *Engine {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewEngine(config.FeaturesConfig{
		RollingWindowSizes: []int{3, 5, 10},
		MatchupStatLimit:   3,
		HomeAwayWindow:     10,
	}, logger)
}

func day(d int) time.Time {
	return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC)
}

func playerGame(entity string, d int, opponent, venue string, points float64) models.GameRecord {
	return models.GameRecord{
		EntityID:   entity,
		EntityName: entity,
		Opponent:   opponent,
		GameDate:   day(d),
		HomeAway:   venue,
		Stats:      map[string]float64{"points": points},
	}
}

func TestRollingAverageExcludesCurrentGame(t *testing.T) {
	e := testEngine()
	rows := e.EngineerPlayerFeatures([]models.GameRecord{
		playerGame("A", 1, "X", "home", 25),
		playerGame("A", 2, "X", "home", 30),
		playerGame("A", 3, "X", "home", 22),
	})

	require.Len(t, rows, 3)
	// First game has no history.
	assert.Equal(t, 0.0, rows[0].Feature("points_rolling_3"))
	// Second game sees only the first.
	assert.InDelta(t, 25.0, rows[1].Feature("points_rolling_3"), 1e-9)
	// Third game sees the first two: mean(25, 30) = 27.5, current 22 excluded.
	assert.InDelta(t, 27.5, rows[2].Feature("points_rolling_3"), 1e-9)
}

func TestRestDayFeatures(t *testing.T) {
	e := testEngine()
	rows := e.EngineerPlayerFeatures([]models.GameRecord{
		playerGame("A", 1, "X", "home", 20),
		playerGame("A", 2, "Y", "away", 18),
		playerGame("A", 7, "Z", "home", 24),
	})

	require.Len(t, rows, 3)
	// First-ever game assumes average rest.
	assert.Equal(t, 3.0, rows[0].Feature("days_rest"))
	assert.Equal(t, 0.0, rows[0].Feature("is_back_to_back"))
	assert.Equal(t, 0.0, rows[0].Feature("is_long_rest"))
	// One day later: back-to-back.
	assert.Equal(t, 1.0, rows[1].Feature("days_rest"))
	assert.Equal(t, 1.0, rows[1].Feature("is_back_to_back"))
	// Five days later: long rest.
	assert.Equal(t, 5.0, rows[2].Feature("days_rest"))
	assert.Equal(t, 1.0, rows[2].Feature("is_long_rest"))
}

func TestTrendFeatures(t *testing.T) {
	e := testEngine()
	points := []float64{10, 12, 14, 16, 18, 20, 30}
	records := make([]models.GameRecord, len(points))
	for i, p := range points {
		records[i] = playerGame("A", i+1, "X", "home", p)
	}
	rows := e.EngineerPlayerFeatures(records)

	// Last row: most recent prior value is 20; baseline is mean of the five
	// games before it (12, 14, 16, 18 capped by window start... full five: 10..18).
	baseline := (10.0 + 12 + 14 + 16 + 18) / 5
	assert.InDelta(t, 20-baseline, rows[6].Feature("points_trend"), 1e-9)

	// Std over the preceding five games requires at least two of them.
	assert.Equal(t, 0.0, rows[1].Feature("points_std_5"))
	assert.Greater(t, rows[3].Feature("points_std_5"), 0.0)
}

func TestHomeAwaySplits(t *testing.T) {
	e := testEngine()
	rows := e.EngineerPlayerFeatures([]models.GameRecord{
		playerGame("A", 1, "X", "home", 30),
		playerGame("A", 2, "X", "away", 10),
		playerGame("A", 3, "X", "home", 20),
		playerGame("A", 4, "X", "away", 16),
	})

	require.Len(t, rows, 4)
	assert.Equal(t, 1.0, rows[0].Feature("is_home"))
	assert.Equal(t, 0.0, rows[1].Feature("is_home"))

	// Fourth game: prior home games are 30 and 20, prior away games only 10.
	assert.InDelta(t, 25.0, rows[3].Feature("points_home_avg"), 1e-9)
	assert.InDelta(t, 10.0, rows[3].Feature("points_away_avg"), 1e-9)
	assert.InDelta(t, 15.0, rows[3].Feature("points_home_away_diff"), 1e-9)
}

func TestMatchupFeatures(t *testing.T) {
	e := testEngine()
	rows := e.EngineerPlayerFeatures([]models.GameRecord{
		playerGame("A", 1, "BOS", "home", 20),
		playerGame("A", 2, "MIA", "home", 40),
		playerGame("A", 3, "BOS", "home", 30),
		playerGame("A", 4, "BOS", "home", 50),
	})

	require.Len(t, rows, 4)
	// No prior meetings with BOS.
	assert.Equal(t, 0.0, rows[0].Feature("points_vs_opp_avg"))
	// Third game: one prior BOS meeting (20); MIA game excluded.
	assert.InDelta(t, 20.0, rows[2].Feature("points_vs_opp_avg"), 1e-9)
	// Fourth game: expanding mean over both prior BOS meetings.
	assert.InDelta(t, 25.0, rows[3].Feature("points_vs_opp_avg"), 1e-9)
}

func TestEntitiesAreIndependent(t *testing.T) {
	e := testEngine()
	rows := e.EngineerPlayerFeatures([]models.GameRecord{
		playerGame("A", 1, "X", "home", 100),
		playerGame("B", 1, "X", "home", 2),
		playerGame("B", 2, "X", "home", 4),
	})

	require.Len(t, rows, 3)
	// B's second game must see only B's history, never A's 100.
	assert.InDelta(t, 2.0, rows[2].Feature("points_rolling_3"), 1e-9)
}

// TestNoFutureLeakage mutates a future game and asserts derived features at
// an earlier row are unchanged; mutating a past game must change them.
func TestNoFutureLeakage(t *testing.T) {
	base := []models.GameRecord{
		playerGame("A", 1, "BOS", "home", 25),
		playerGame("A", 2, "BOS", "away", 30),
		playerGame("A", 3, "BOS", "home", 22),
		playerGame("A", 4, "BOS", "away", 28),
	}
	e := testEngine()
	derivedAt := func(records []models.GameRecord, idx int) map[string]float64 {
		rows := e.EngineerPlayerFeatures(records)
		out := make(map[string]float64)
		for name, v := range rows[idx].Features {
			if name == "points" {
				continue // raw column, not derived
			}
			out[name] = v
		}
		return out
	}

	before := derivedAt(base, 2)

	// Perturb the current game and a future game: row 2's derived features
	// must not move.
	mutated := make([]models.GameRecord, len(base))
	copy(mutated, base)
	mutated[2] = playerGame("A", 3, "BOS", "home", 999)
	mutated[3] = playerGame("A", 4, "BOS", "away", -50)
	assert.Equal(t, before, derivedAt(mutated, 2))

	// Perturb a past game: rolling/trend/matchup columns must move.
	past := make([]models.GameRecord, len(base))
	copy(past, base)
	past[0] = playerGame("A", 1, "BOS", "home", 80)
	after := derivedAt(past, 2)
	assert.NotEqual(t, before["points_rolling_3"], after["points_rolling_3"])
	assert.NotEqual(t, before["points_vs_opp_avg"], after["points_vs_opp_avg"])
}

func TestSparseStatsSkippedInWindows(t *testing.T) {
	e := testEngine()
	records := []models.GameRecord{
		playerGame("A", 1, "X", "home", 10),
		{
			EntityID: "A",
			Opponent: "X",
			GameDate: day(2),
			HomeAway: "home",
			Stats:    map[string]float64{"assists": 5}, // points missing, not zero
		},
		playerGame("A", 3, "X", "home", 20),
	}
	rows := e.EngineerPlayerFeatures(records)

	// Third game's window covers games 1 and 2; the missing points value is
	// skipped, not counted as zero.
	assert.InDelta(t, 10.0, rows[2].Feature("points_rolling_3"), 1e-9)
}
