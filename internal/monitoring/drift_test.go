package monitoring

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masterkanin/sports-predictor/internal/models"
)

func statRecords(values ...float64) []models.GameRecord {
	records := make([]models.GameRecord, len(values))
	for i, v := range values {
		records[i] = models.GameRecord{
			EntityID: "player",
			GameDate: gameDay,
			Stats:    map[string]float64{"points": v},
		}
	}
	return records
}

func TestDriftDetectorNoHistory(t *testing.T) {
	d := NewDriftDetector(testConfig(), quietLogger())

	score, alert := d.Detect(models.SportNBA, gameDay, statRecords(20, 25, 30))
	assert.Equal(t, 0.0, score)
	assert.Nil(t, alert)
}

func TestDriftDetectorStableDistribution(t *testing.T) {
	d := NewDriftDetector(testConfig(), quietLogger())

	d.Detect(models.SportNBA, gameDay.AddDate(0, 0, -1), statRecords(20, 25, 30))
	score, alert := d.Detect(models.SportNBA, gameDay, statRecords(20, 25, 30))

	assert.InDelta(t, 0.0, score, 1e-9)
	assert.Nil(t, alert)
}

func TestDriftDetectorShiftedMean(t *testing.T) {
	d := NewDriftDetector(testConfig(), quietLogger())

	d.Detect(models.SportNBA, gameDay.AddDate(0, 0, -1), statRecords(20, 25, 30))
	// Mean doubles from 25 to 50: relative shift 1.0.
	score, alert := d.Detect(models.SportNBA, gameDay, statRecords(40, 50, 60))

	assert.InDelta(t, 1.0, score, 1e-9)
	require.NotNil(t, alert)
	assert.Equal(t, models.SportNBA, alert.Sport)
	assert.InDelta(t, 1.0, alert.Score, 1e-9)
	assert.InDelta(t, 0.05, alert.Threshold, 1e-9)
}

func TestDriftDetectorIgnoresOtherSports(t *testing.T) {
	d := NewDriftDetector(testConfig(), quietLogger())

	d.Detect(models.SportNFL, gameDay.AddDate(0, 0, -1), statRecords(20, 25, 30))
	score, alert := d.Detect(models.SportNBA, gameDay, statRecords(40, 50, 60))

	assert.Equal(t, 0.0, score)
	assert.Nil(t, alert)
}

func TestDriftDetectorWindowCutoff(t *testing.T) {
	d := NewDriftDetector(testConfig(), quietLogger())

	// Outside the 30-day drift window.
	d.Detect(models.SportNBA, gameDay.AddDate(0, 0, -40), statRecords(20, 25, 30))
	score, alert := d.Detect(models.SportNBA, gameDay, statRecords(40, 50, 60))

	assert.Equal(t, 0.0, score)
	assert.Nil(t, alert)
}

func TestDriftDetectorNewStatsIgnored(t *testing.T) {
	d := NewDriftDetector(testConfig(), quietLogger())

	d.Detect(models.SportNBA, gameDay.AddDate(0, 0, -1), statRecords(20, 25, 30))
	// Same points distribution; assists has no history and must not score.
	records := statRecords(20, 25, 30)
	records[0].Stats["assists"] = 99

	score, alert := d.Detect(models.SportNBA, gameDay, records)
	assert.InDelta(t, 0.0, score, 1e-9)
	assert.Nil(t, alert)
}

func TestDriftDetectorUpsertSameDay(t *testing.T) {
	d := NewDriftDetector(testConfig(), quietLogger())

	d.Detect(models.SportNBA, gameDay, statRecords(20, 25, 30))
	d.Detect(models.SportNBA, gameDay, statRecords(20, 25, 30))

	assert.Len(t, d.History(models.SportNBA), 1)
}

func TestDriftDetectorSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "distribution_history.json")

	d := NewDriftDetector(testConfig(), quietLogger())
	d.Detect(models.SportNBA, gameDay.AddDate(0, 0, -1), statRecords(20, 25, 30))
	require.NoError(t, d.Save(path))

	restored := NewDriftDetector(testConfig(), quietLogger())
	require.NoError(t, restored.Load(path))
	require.Len(t, restored.History(models.SportNBA), 1)

	// The restored history drives scoring like the live one.
	score, alert := restored.Detect(models.SportNBA, gameDay, statRecords(40, 50, 60))
	assert.InDelta(t, 1.0, score, 1e-9)
	assert.NotNil(t, alert)
}

func TestComputeDistributionSparseStats(t *testing.T) {
	records := []models.GameRecord{
		{EntityID: "a", GameDate: gameDay, Stats: map[string]float64{"points": 20, "assists": 5}},
		{EntityID: "b", GameDate: gameDay, Stats: map[string]float64{"points": 30}},
	}

	dist := computeDistribution(records)
	require.Contains(t, dist, "points")
	require.Contains(t, dist, "assists")
	assert.InDelta(t, 25.0, dist["points"].Mean, 1e-9)
	assert.Equal(t, 2, dist["points"].Count)
	assert.Equal(t, 1, dist["assists"].Count)
}
