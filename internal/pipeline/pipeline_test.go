package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masterkanin/sports-predictor/internal/config"
	"github.com/masterkanin/sports-predictor/internal/model"
	"github.com/masterkanin/sports-predictor/internal/models"
)

// fixedModel returns the same value for every row and counts batch calls.
type fixedModel struct {
	regression     float64
	classification float64
	err            error
	calls          int
}

func (f *fixedModel) Predict(_ context.Context, in *model.Input, _ bool) (*model.Output, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := &model.Output{
		Regression:     make([]float64, in.Len()),
		Classification: make([]float64, in.Len()),
	}
	for i := range out.Regression {
		out.Regression[i] = f.regression
		out.Classification[i] = f.classification
	}
	return out, nil
}

func pipelineConfig() *config.Config {
	return &config.Config{
		ModelService: config.ModelServiceConfig{
			CacheTTLSeconds: 300,
			CacheMaxSize:    1000,
		},
		Features: config.FeaturesConfig{
			RollingWindowSizes: []int{3, 5, 10},
			MatchupStatLimit:   3,
			HomeAwayWindow:     10,
		},
		Uncertainty: config.UncertaintyConfig{
			MCDropoutSamples: 10,
			MaxExpectedStd:   10,
		},
		Prediction: config.PredictionConfig{
			EnsembleBlendWeight: 0.5,
		},
	}
}

func pipelineLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func gameHistory(entityID, name string, points ...float64) []models.GameRecord {
	records := make([]models.GameRecord, len(points))
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, p := range points {
		records[i] = models.GameRecord{
			EntityID:   entityID,
			EntityName: name,
			Team:       "LAL",
			Opponent:   "DEN",
			GameDate:   base.AddDate(0, 0, i*2),
			HomeAway:   models.VenueHome,
			StatType:   "points",
			Stats:      map[string]float64{"points": p},
		}
	}
	return records
}

func TestPredictSport(t *testing.T) {
	cfg := pipelineConfig()
	registry := model.NewRegistry()
	primary := &fixedModel{regression: 26.0, classification: 0.62}
	registry.RegisterPrimary(models.SportNBA, primary)

	p := New(cfg, registry, pipelineLogger())

	data := SportData{
		Records: gameHistory("lebron-james", "LeBron James", 25, 30, 22, 28),
		Lines: []models.PropLine{
			{
				Sport:      models.SportNBA,
				PlayerName: "LeBron James",
				StatType:   "points",
				Line:       decimal.NewFromFloat(24.5),
				Book:       "prizepicks",
			},
		},
	}

	predictions, err := p.PredictSport(context.Background(), models.SportNBA, data)
	require.NoError(t, err)
	require.Len(t, predictions, 1)

	pred := predictions[0]
	assert.Equal(t, "LeBron James", pred.Player)
	assert.Equal(t, models.SportNBA, pred.Sport)
	assert.Equal(t, "points", pred.Stat)
	assert.Equal(t, 26.0, pred.PredictedValue)
	assert.Equal(t, 0.62, pred.OverProbability)
	require.True(t, pred.HasLine())
	assert.Equal(t, 24.5, *pred.Line)

	// A deterministic model has zero spread, so confidence is maximal and
	// the range collapses onto the point estimate.
	assert.Equal(t, models.ConfidenceVeryHigh, pred.Confidence)
	assert.InDelta(t, 100.0, pred.ConfidenceScore, 1e-9)
	assert.Equal(t, pred.PredictedValue, pred.PredictionRange[0])
	assert.Equal(t, pred.PredictedValue, pred.PredictionRange[1])

	assert.Len(t, pred.TopFactors, 3)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", pred.ID.String())
}

func TestPredictSportNoLine(t *testing.T) {
	registry := model.NewRegistry()
	registry.RegisterPrimary(models.SportNBA, &fixedModel{regression: 26.0, classification: 0.62})
	p := New(pipelineConfig(), registry, pipelineLogger())

	predictions, err := p.PredictSport(context.Background(), models.SportNBA, SportData{
		Records: gameHistory("lebron-james", "LeBron James", 25, 30),
	})
	require.NoError(t, err)
	require.Len(t, predictions, 1)
	assert.False(t, predictions[0].HasLine())
}

func TestPredictSportEnsembleBlend(t *testing.T) {
	registry := model.NewRegistry()
	registry.RegisterPrimary(models.SportNBA, &fixedModel{regression: 20.0, classification: 0.4})
	registry.RegisterEnsemble(models.SportNBA, model.NewEnsemble(
		&fixedModel{regression: 30.0, classification: 0.6},
	))
	p := New(pipelineConfig(), registry, pipelineLogger())

	predictions, err := p.PredictSport(context.Background(), models.SportNBA, SportData{
		Records: gameHistory("lebron-james", "LeBron James", 25, 30),
	})
	require.NoError(t, err)
	require.Len(t, predictions, 1)

	assert.InDelta(t, 25.0, predictions[0].PredictedValue, 1e-9)
	assert.InDelta(t, 0.5, predictions[0].OverProbability, 1e-9)
}

func TestPredictSportUsesCacheOnRerun(t *testing.T) {
	registry := model.NewRegistry()
	primary := &fixedModel{regression: 26.0, classification: 0.62}
	registry.RegisterPrimary(models.SportNBA, primary)
	p := New(pipelineConfig(), registry, pipelineLogger())

	data := SportData{Records: gameHistory("lebron-james", "LeBron James", 25, 30)}

	_, err := p.PredictSport(context.Background(), models.SportNBA, data)
	require.NoError(t, err)
	callsAfterFirst := primary.calls

	again, err := p.PredictSport(context.Background(), models.SportNBA, data)
	require.NoError(t, err)
	require.Len(t, again, 1)
	assert.Equal(t, callsAfterFirst, primary.calls, "second run should be served from cache")
}

func TestPredictAllIsolatesFailures(t *testing.T) {
	registry := model.NewRegistry()
	registry.RegisterPrimary(models.SportNBA, &fixedModel{regression: 26.0, classification: 0.62})
	registry.RegisterPrimary(models.SportNFL, &fixedModel{err: errors.New("model service unavailable")})
	p := New(pipelineConfig(), registry, pipelineLogger())

	results := p.PredictAll(context.Background(), map[models.Sport]SportData{
		models.SportNBA: {Records: gameHistory("lebron-james", "LeBron James", 25, 30)},
		models.SportNFL: {Records: gameHistory("patrick-mahomes", "Patrick Mahomes", 280, 310)},
	})

	assert.Len(t, results[models.SportNBA], 1)
	assert.Empty(t, results[models.SportNFL])
}

func TestPredictAllMissingModel(t *testing.T) {
	p := New(pipelineConfig(), model.NewRegistry(), pipelineLogger())

	results := p.PredictAll(context.Background(), map[models.Sport]SportData{
		models.SportNHL: {Records: gameHistory("connor-mcdavid", "Connor McDavid", 1, 2)},
	})
	assert.Empty(t, results[models.SportNHL])
}

func TestTopFactors(t *testing.T) {
	row := models.FeatureRow{
		Features: map[string]float64{
			"points_rolling_5": 30.0,
			"is_home":          1.0,
			"days_rest":        0.0,
		},
	}
	factors := topFactors(row, 26.0)
	require.Len(t, factors, 3)
	assert.Equal(t, "Recent scoring below average", factors[0])
	assert.Equal(t, "Home game advantage", factors[1])
	assert.Equal(t, "Playing on short rest", factors[2])

	// Sparse rows pad with generic factors.
	padded := topFactors(models.FeatureRow{Features: map[string]float64{}}, 10.0)
	require.Len(t, padded, 3)
	assert.Equal(t, "Historical performance trend", padded[0])
}
