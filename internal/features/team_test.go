package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masterkanin/sports-predictor/internal/models"
)

func teamGame(team string, d int, winLoss string, scored, allowed float64) models.GameRecord {
	return models.GameRecord{
		EntityID: team,
		Team:     team,
		Opponent: "OPP",
		GameDate: time.Date(2025, 2, d, 0, 0, 0, 0, time.UTC),
		HomeAway: "home",
		WinLoss:  winLoss,
		Stats: map[string]float64{
			"points_scored":  scored,
			"points_allowed": allowed,
		},
	}
}

func TestTeamRatings(t *testing.T) {
	e := testEngine()
	rows := e.EngineerTeamFeatures([]models.GameRecord{
		teamGame("GSW", 1, "W", 120, 100),
		teamGame("GSW", 2, "L", 100, 120),
		teamGame("GSW", 3, "W", 110, 110),
	})

	require.Len(t, rows, 3)
	for _, row := range rows {
		_, hasOff := row.Features["offensive_rating"]
		_, hasDef := row.Features["defensive_rating"]
		_, hasTeam := row.Features["team_rating"]
		assert.True(t, hasOff)
		assert.True(t, hasDef)
		assert.True(t, hasTeam)
		assert.InDelta(t,
			(row.Features["offensive_rating"]+row.Features["defensive_rating"])/2,
			row.Features["team_rating"], 1e-9)
	}

	// Highest-scoring, stingiest game carries the best ratings.
	assert.Greater(t, rows[0].Features["offensive_rating"], rows[1].Features["offensive_rating"])
	assert.Greater(t, rows[0].Features["defensive_rating"], rows[1].Features["defensive_rating"])

	// Rolling rating is shifted: first game has none, second sees the first.
	assert.Equal(t, 0.0, rows[0].Features["offensive_rating_rolling_5"])
	assert.InDelta(t, rows[0].Features["offensive_rating"], rows[1].Features["offensive_rating_rolling_5"], 1e-9)
}

func TestDefensiveRatingInverted(t *testing.T) {
	e := testEngine()
	rows := e.EngineerTeamFeatures([]models.GameRecord{
		teamGame("A", 1, "W", 100, 90),
		teamGame("A", 2, "L", 100, 130),
	})

	// Allowing more points must read as a worse defense.
	assert.Greater(t, rows[0].Features["defensive_rating"], rows[1].Features["defensive_rating"])
}

func TestWinStreak(t *testing.T) {
	e := testEngine()
	rows := e.EngineerTeamFeatures([]models.GameRecord{
		teamGame("A", 1, "W", 100, 90),
		teamGame("A", 2, "W", 100, 90),
		teamGame("A", 3, "L", 90, 100),
		teamGame("A", 4, "W", 100, 90),
		teamGame("A", 5, "W", 100, 90),
		teamGame("A", 6, "W", 100, 90),
	})

	streaks := make([]float64, len(rows))
	for i, row := range rows {
		streaks[i] = row.Features["win_streak"]
	}
	assert.Equal(t, []float64{1, 2, 0, 1, 2, 3}, streaks)
}

func TestTeamsAreIndependent(t *testing.T) {
	e := testEngine()
	rows := e.EngineerTeamFeatures([]models.GameRecord{
		teamGame("A", 1, "W", 140, 80),
		teamGame("B", 1, "L", 80, 140),
		teamGame("B", 2, "W", 90, 85),
	})

	require.Len(t, rows, 3)
	// B's rolling rating sees only B's first game.
	assert.InDelta(t, rows[1].Features["team_rating"], rows[2].Features["team_rating_rolling_5"], 1e-9)
}
