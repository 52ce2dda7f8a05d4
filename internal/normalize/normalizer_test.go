package normalize

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masterkanin/sports-predictor/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func nbaRecord(points, rebounds float64) models.GameRecord {
	return models.GameRecord{
		EntityID: "player1",
		Opponent: "LAL",
		GameDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		HomeAway: "home",
		Stats:    map[string]float64{"points": points, "rebounds": rebounds},
	}
}

func TestFitAndRoundTrip(t *testing.T) {
	n := NewNormalizer(testLogger())
	n.Fit(map[models.Sport][]models.GameRecord{
		models.SportNBA: {nbaRecord(20, 5), nbaRecord(30, 9), nbaRecord(25, 7)},
	})

	for _, v := range []float64{0, 12.5, 25, 48.3} {
		normalized := n.NormalizeStat(models.SportNBA, "points", v)
		assert.InDelta(t, v, n.DenormalizeStat(models.SportNBA, "points", normalized), 1e-5)
	}
}

func TestNormalizeStatFallback(t *testing.T) {
	n := NewNormalizer(testLogger())

	// No fit: degraded /100 scaling applies.
	assert.InDelta(t, 0.42, n.NormalizeStat(models.SportNBA, "points", 42), 1e-9)
	assert.InDelta(t, 42, n.DenormalizeStat(models.SportNBA, "points", 0.42), 1e-9)
}

func TestFitFloorsZeroStd(t *testing.T) {
	n := NewNormalizer(testLogger())
	n.Fit(map[models.Sport][]models.GameRecord{
		models.SportNBA: {nbaRecord(10, 5), nbaRecord(10, 5)},
	})

	// Constant series: std floored at 1, so normalization is value - mean.
	assert.InDelta(t, 2.0, n.NormalizeStat(models.SportNBA, "points", 12), 1e-9)
}

func TestTransformCategoryAveraging(t *testing.T) {
	n := NewNormalizer(testLogger())
	records := []models.GameRecord{
		{
			EntityID: "p1",
			Opponent: "BOS",
			GameDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
			HomeAway: "away",
			Stats: map[string]float64{
				"points":              30,
				"three_pointers_made": 4,
				"assists":             8,
			},
		},
	}

	out := n.Transform(map[models.Sport][]models.GameRecord{models.SportNBA: records})

	require.Len(t, out[CategoryScoring], 1)
	// points and three_pointers_made both land in scoring: the category value
	// is their average under fallback scaling.
	assert.InDelta(t, (30.0/100+4.0/100)/2, out[CategoryScoring][0], 1e-9)
	assert.InDelta(t, 8.0/100, out[CategoryAssists][0], 1e-9)
	// No rebounds reported: category defaults to 0.
	assert.Equal(t, 0.0, out[CategoryRebounds][0])
}

func TestTransformUnknownSportAndStat(t *testing.T) {
	n := NewNormalizer(testLogger())
	records := []models.GameRecord{
		{
			EntityID: "p1",
			Opponent: "X",
			GameDate: time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
			HomeAway: "home",
			Stats:    map[string]float64{"made_up_stat": 99},
		},
	}

	// Unknown stat names are silently excluded from category averaging.
	out := n.Transform(map[models.Sport][]models.GameRecord{models.SportNHL: records})
	for _, c := range Categories {
		require.Len(t, out[c], 1)
		assert.Equal(t, 0.0, out[c][0])
	}
}

func TestSaveLoad(t *testing.T) {
	n := NewNormalizer(testLogger())
	n.Fit(map[models.Sport][]models.GameRecord{
		models.SportNBA: {nbaRecord(20, 5), nbaRecord(30, 9)},
	})

	path := filepath.Join(t.TempDir(), "normalizer.json")
	require.NoError(t, n.Save(path))

	restored := NewNormalizer(testLogger())
	require.NoError(t, restored.Load(path))

	normalized := n.NormalizeStat(models.SportNBA, "points", 27)
	assert.InDelta(t, normalized, restored.NormalizeStat(models.SportNBA, "points", 27), 1e-9)
}
