package monitoring

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masterkanin/sports-predictor/internal/config"
	"github.com/masterkanin/sports-predictor/internal/models"
)

var gameDay = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func linePtr(v float64) *float64 { return &v }

func testConfig() config.MonitoringConfig {
	return config.MonitoringConfig{
		TrailingWindowDays: 7,
		DriftWindowDays:    30,
		AlertThresholds: config.AlertThresholdsConfig{
			MSEIncrease:      0.2,
			AccuracyDecrease: 0.1,
			DriftScore:       0.05,
		},
	}
}

func TestMatchOutcomes(t *testing.T) {
	predictions := []models.PredictionRecord{
		{Player: "LeBron James", Stat: "points", GameDate: gameDay, PredictedValue: 26.0, Line: linePtr(24.5), OverProbability: 0.65, ConfidenceScore: 80},
		{Player: "Nikola Jokic", Stat: "rebounds", GameDate: gameDay, PredictedValue: 12.0, OverProbability: 0.55},
		{Player: "No Outcome", Stat: "points", GameDate: gameDay, PredictedValue: 10.0},
	}
	outcomes := []models.Outcome{
		{Player: "LeBron James", Stat: "points", GameDate: gameDay, ActualValue: 28.0},
		{Player: "Nikola Jokic", Stat: "rebounds", GameDate: gameDay, ActualValue: 11.0},
		{Player: "No Prediction", Stat: "assists", GameDate: gameDay, ActualValue: 5.0},
	}

	matched := MatchOutcomes(predictions, outcomes, quietLogger())
	require.Len(t, matched, 2)

	assert.Equal(t, "LeBron James", matched[0].Player)
	assert.Equal(t, 28.0, matched[0].ActualValue)
	assert.True(t, matched[0].HasLine)
	assert.Equal(t, 1, matched[0].ActualOver)

	assert.False(t, matched[1].HasLine)
	assert.Equal(t, 0, matched[1].ActualOver)
}

func TestMatchOutcomesKeyIncludesDate(t *testing.T) {
	predictions := []models.PredictionRecord{
		{Player: "LeBron James", Stat: "points", GameDate: gameDay, PredictedValue: 26.0},
	}
	outcomes := []models.Outcome{
		{Player: "LeBron James", Stat: "points", GameDate: gameDay.AddDate(0, 0, 1), ActualValue: 28.0},
	}

	assert.Empty(t, MatchOutcomes(predictions, outcomes, quietLogger()))
}

func TestComputeSnapshotRegressionMetrics(t *testing.T) {
	matched := []models.MatchedResult{
		{PredictedValue: 25.0, ActualValue: 27.0, ConfidenceScore: 100},
		{PredictedValue: 10.0, ActualValue: 9.0, ConfidenceScore: 50},
	}

	snap := ComputeSnapshot(models.SportNBA, gameDay, matched)
	assert.Equal(t, 2, snap.SampleCount)
	assert.InDelta(t, 2.5, snap.MSE, 1e-9)  // (4+1)/2
	assert.InDelta(t, 1.5, snap.MAE, 1e-9)  // (2+1)/2
	assert.InDelta(t, 1.5811, snap.RMSE, 1e-3)
	// Weighted: (1.0*4 + 0.5*1) / 1.5
	assert.InDelta(t, 3.0, snap.WeightedMSE, 1e-9)
}

func TestComputeSnapshotClassificationMetrics(t *testing.T) {
	matched := []models.MatchedResult{
		{HasLine: true, OverProbability: 0.9, ActualOver: 1},
		{HasLine: true, OverProbability: 0.8, ActualOver: 1},
		{HasLine: true, OverProbability: 0.3, ActualOver: 0},
		{HasLine: true, OverProbability: 0.7, ActualOver: 0},
		{OverProbability: 0.99, ActualOver: 0}, // no line, excluded
	}

	snap := ComputeSnapshot(models.SportNBA, gameDay, matched)
	assert.InDelta(t, 0.75, snap.Accuracy, 1e-9)
	// Both games that landed over were called over; of the two that landed
	// under, only the 0.3 row was called under.
	assert.InDelta(t, 1.0, snap.OverAccuracy, 1e-9)
	assert.InDelta(t, 0.5, snap.UnderAccuracy, 1e-9)
	assert.Greater(t, snap.AUC, 0.5)
}

func TestSidedAccuracyPartitionsByOutcome(t *testing.T) {
	// A row the model calls over but that lands under must count against
	// the under subpopulation, not the over one.
	lined := []models.MatchedResult{
		{HasLine: true, OverProbability: 0.9, ActualOver: 1},
		{HasLine: true, OverProbability: 0.8, ActualOver: 1},
		{HasLine: true, OverProbability: 0.3, ActualOver: 0},
		{HasLine: true, OverProbability: 0.7, ActualOver: 0},
	}
	over, under := sidedAccuracy(lined)
	assert.InDelta(t, 1.0, over, 1e-9)
	assert.InDelta(t, 0.5, under, 1e-9)
}

func TestSidedAccuracyEmptySubpopulation(t *testing.T) {
	lined := []models.MatchedResult{
		{HasLine: true, OverProbability: 0.9, ActualOver: 1},
		{HasLine: true, OverProbability: 0.2, ActualOver: 1},
	}
	over, under := sidedAccuracy(lined)
	assert.InDelta(t, 0.5, over, 1e-9)
	assert.Equal(t, 0.0, under)
}

func TestAUCPerfectSeparation(t *testing.T) {
	lined := []models.MatchedResult{
		{HasLine: true, OverProbability: 0.9, ActualOver: 1},
		{HasLine: true, OverProbability: 0.8, ActualOver: 1},
		{HasLine: true, OverProbability: 0.2, ActualOver: 0},
		{HasLine: true, OverProbability: 0.1, ActualOver: 0},
	}
	assert.InDelta(t, 1.0, aucScore(lined), 1e-9)
}

func TestAUCSingleClass(t *testing.T) {
	lined := []models.MatchedResult{
		{HasLine: true, OverProbability: 0.9, ActualOver: 1},
		{HasLine: true, OverProbability: 0.8, ActualOver: 1},
	}
	assert.Equal(t, 0.0, aucScore(lined))
}

func TestCalibrationErrorWellCalibrated(t *testing.T) {
	// In the 0.6-0.8 bin, 0.7 probability with 70% realized overs.
	var lined []models.MatchedResult
	for i := 0; i < 10; i++ {
		over := 0
		if i < 7 {
			over = 1
		}
		lined = append(lined, models.MatchedResult{HasLine: true, OverProbability: 0.7, ActualOver: over})
	}
	assert.InDelta(t, 0.0, calibrationError(lined), 1e-9)
}

func TestCalibrationErrorTopBinClosed(t *testing.T) {
	lined := []models.MatchedResult{
		{HasLine: true, OverProbability: 1.0, ActualOver: 1},
	}
	assert.InDelta(t, 0.0, calibrationError(lined), 1e-9)
}

func TestDetectDegradationMSE(t *testing.T) {
	history := []models.PerformanceSnapshot{
		{Sport: models.SportNBA, Date: gameDay.AddDate(0, 0, -2), MSE: 2.0, Accuracy: 0.6},
		{Sport: models.SportNBA, Date: gameDay.AddDate(0, 0, -1), MSE: 2.0, Accuracy: 0.6},
	}
	current := models.PerformanceSnapshot{Sport: models.SportNBA, Date: gameDay, MSE: 3.0, Accuracy: 0.6}

	alerts := detectDegradation(current, history, testConfig())
	require.Len(t, alerts, 1)
	assert.Equal(t, "mse", alerts[0].Metric)
	assert.InDelta(t, 2.0, alerts[0].TrailingValue, 1e-9)
}

func TestDetectDegradationAccuracy(t *testing.T) {
	history := []models.PerformanceSnapshot{
		{Sport: models.SportNBA, Date: gameDay.AddDate(0, 0, -1), MSE: 2.0, Accuracy: 0.6},
	}
	current := models.PerformanceSnapshot{Sport: models.SportNBA, Date: gameDay, MSE: 2.0, Accuracy: 0.5}

	alerts := detectDegradation(current, history, testConfig())
	require.Len(t, alerts, 1)
	assert.Equal(t, "accuracy", alerts[0].Metric)
}

func TestDetectDegradationNoHistory(t *testing.T) {
	current := models.PerformanceSnapshot{Sport: models.SportNBA, Date: gameDay, MSE: 100.0}
	assert.Empty(t, detectDegradation(current, nil, testConfig()))
}

func TestDetectDegradationIgnoresOtherSports(t *testing.T) {
	history := []models.PerformanceSnapshot{
		{Sport: models.SportNFL, Date: gameDay.AddDate(0, 0, -1), MSE: 1.0, Accuracy: 0.9},
	}
	current := models.PerformanceSnapshot{Sport: models.SportNBA, Date: gameDay, MSE: 100.0, Accuracy: 0.1}
	assert.Empty(t, detectDegradation(current, history, testConfig()))
}

func TestDetectDegradationWindowCutoff(t *testing.T) {
	history := []models.PerformanceSnapshot{
		// Outside the 7-day trailing window.
		{Sport: models.SportNBA, Date: gameDay.AddDate(0, 0, -10), MSE: 1.0, Accuracy: 0.9},
	}
	current := models.PerformanceSnapshot{Sport: models.SportNBA, Date: gameDay, MSE: 100.0, Accuracy: 0.1}
	assert.Empty(t, detectDegradation(current, history, testConfig()))
}

func TestTrackerUpsertSameDay(t *testing.T) {
	tracker := NewTracker(testConfig(), quietLogger())
	outcomes := []models.Outcome{
		{Player: "LeBron James", Stat: "points", GameDate: gameDay, ActualValue: 28.0},
	}
	predictions := []models.PredictionRecord{
		{Player: "LeBron James", Stat: "points", GameDate: gameDay, PredictedValue: 26.0, ConfidenceScore: 80},
	}

	tracker.Track(models.SportNBA, gameDay, predictions, outcomes)
	tracker.Track(models.SportNBA, gameDay, predictions, outcomes)

	assert.Len(t, tracker.History(models.SportNBA), 1)
	assert.Empty(t, tracker.History(models.SportNFL))
}
