package uncertainty

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masterkanin/sports-predictor/internal/config"
	"github.com/masterkanin/sports-predictor/internal/model"
	"github.com/masterkanin/sports-predictor/internal/models"
)

// constantModel ignores the stochastic flag and always returns the same
// outputs.
type constantModel struct {
	regression     float64
	classification float64
}

func (c *constantModel) Predict(_ context.Context, in *model.Input, _ bool) (*model.Output, error) {
	out := &model.Output{
		Regression:     make([]float64, in.Len()),
		Classification: make([]float64, in.Len()),
	}
	for i := range out.Regression {
		out.Regression[i] = c.regression
		out.Classification[i] = c.classification
	}
	return out, nil
}

// noisyModel adds Gaussian noise on every stochastic pass.
type noisyModel struct {
	mean float64
	std  float64
	rng  *rand.Rand
}

func (m *noisyModel) Predict(_ context.Context, in *model.Input, stochastic bool) (*model.Output, error) {
	out := &model.Output{
		Regression:     make([]float64, in.Len()),
		Classification: make([]float64, in.Len()),
	}
	for i := range out.Regression {
		value := m.mean
		if stochastic {
			value += m.rng.NormFloat64() * m.std
		}
		out.Regression[i] = value
		out.Classification[i] = 0.5
	}
	return out, nil
}

func estimatorInput(n int) *model.Input {
	rows := make([]models.FeatureRow, n)
	for i := range rows {
		rows[i] = models.FeatureRow{Features: map[string]float64{"points_rolling_5": 20}}
	}
	return &model.Input{Sport: models.SportNBA, Rows: rows}
}

func newTestEstimator(samples int) *Estimator {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewEstimator(config.UncertaintyConfig{MCDropoutSamples: samples, MaxExpectedStd: 10}, logger)
}

func TestMonteCarloDropoutConstantModel(t *testing.T) {
	est := newTestEstimator(50)
	m := &constantModel{regression: 24.0, classification: 0.7}

	result, err := est.MonteCarloDropout(context.Background(), m, estimatorInput(3))
	require.NoError(t, err)
	require.Equal(t, 3, result.Len())

	for row := 0; row < 3; row++ {
		assert.InDelta(t, 24.0, result.RegressionMean[row], 1e-9)
		assert.InDelta(t, 0.0, result.RegressionStd[row], 1e-9)
		assert.InDelta(t, 24.0, result.RegressionLower[row], 1e-9)
		assert.InDelta(t, 24.0, result.RegressionUpper[row], 1e-9)
		assert.InDelta(t, 0.7, result.ClassificationMean[row], 1e-9)
	}
}

func TestMonteCarloDropoutNoisyModel(t *testing.T) {
	est := newTestEstimator(500)
	m := &noisyModel{mean: 20.0, std: 2.0, rng: rand.New(rand.NewSource(42))}

	result, err := est.MonteCarloDropout(context.Background(), m, estimatorInput(1))
	require.NoError(t, err)

	assert.InDelta(t, 20.0, result.RegressionMean[0], 0.5)
	assert.InDelta(t, 2.0, result.RegressionStd[0], 0.5)
	assert.Less(t, result.RegressionLower[0], result.RegressionMean[0])
	assert.Greater(t, result.RegressionUpper[0], result.RegressionMean[0])

	width := result.RegressionUpper[0] - result.RegressionLower[0]
	assert.InDelta(t, 2*1.96*result.RegressionStd[0], width, 1e-9)
}

func TestBinaryEntropy(t *testing.T) {
	// Entropy peaks at p=0.5 and vanishes at the extremes.
	assert.InDelta(t, math.Log(2), binaryEntropy(0.5), 1e-6)
	assert.InDelta(t, 0.0, binaryEntropy(0.0), 1e-6)
	assert.InDelta(t, 0.0, binaryEntropy(1.0), 1e-6)
	assert.Greater(t, binaryEntropy(0.5), binaryEntropy(0.9))
}

func TestFromEnsemble(t *testing.T) {
	dist := &model.Distribution{
		RegressionMean:     []float64{25.0},
		RegressionStd:      []float64{2.0},
		ClassificationMean: []float64{0.6},
		ClassificationStd:  []float64{0.05},
	}

	est := FromEnsemble(dist)
	require.Equal(t, 1, est.Len())
	assert.InDelta(t, 25.0-1.96*2.0, est.RegressionLower[0], 1e-9)
	assert.InDelta(t, 25.0+1.96*2.0, est.RegressionUpper[0], 1e-9)
	assert.InDelta(t, binaryEntropy(0.6), est.ClassificationEntropy[0], 1e-9)
}

func TestScorer(t *testing.T) {
	scorer := NewScorer(config.UncertaintyConfig{MaxExpectedStd: 10})

	assert.InDelta(t, 100.0, scorer.Score(0, 0), 1e-9)
	assert.InDelta(t, 50.0, scorer.Score(5, 0), 1e-9)
	assert.InDelta(t, 0.0, scorer.Score(10, 0), 1e-9)
	// Spread beyond the maximum clamps at zero confidence.
	assert.InDelta(t, 0.0, scorer.Score(25, 0), 1e-9)

	// Classification fallback when the regression spread is unusable.
	assert.InDelta(t, 80.0, scorer.Score(math.NaN(), 0.1), 1e-9)
	assert.InDelta(t, 0.0, scorer.Score(math.NaN(), 0.9), 1e-9)

	// Neutral score with no usable signal.
	assert.InDelta(t, 50.0, scorer.Score(math.NaN(), math.NaN()), 1e-9)
}

func TestCategorize(t *testing.T) {
	cases := []struct {
		score float64
		want  models.ConfidenceCategory
	}{
		{95, models.ConfidenceVeryHigh},
		{90, models.ConfidenceVeryHigh},
		{80, models.ConfidenceHigh},
		{60, models.ConfidenceModerate},
		{30, models.ConfidenceLow},
		{10, models.ConfidenceVeryLow},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Categorize(tc.score), "score %v", tc.score)
	}
}
