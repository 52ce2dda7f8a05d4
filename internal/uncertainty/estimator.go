// Package uncertainty quantifies prediction uncertainty with Monte Carlo
// dropout sampling and ensemble disagreement, and converts the resulting
// spread into a bounded confidence score.
package uncertainty

import (
	"context"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"

	"github.com/masterkanin/sports-predictor/internal/config"
	"github.com/masterkanin/sports-predictor/internal/model"
	"github.com/masterkanin/sports-predictor/internal/models"
)

const (
	// defaultSamples is the number of stochastic forward passes when the
	// configuration does not set one.
	defaultSamples = 100

	// intervalZ is the z-value for a 95% prediction interval.
	intervalZ = 1.96

	// entropyEpsilon guards the entropy logarithms against p of exactly 0
	// or 1.
	entropyEpsilon = 1e-10
)

// Estimator runs repeated stochastic forward passes against a model and
// summarises the resulting output distribution per row.
type Estimator struct {
	samples int
	logger  *logrus.Logger
}

// NewEstimator creates an estimator from configuration.
func NewEstimator(cfg config.UncertaintyConfig, logger *logrus.Logger) *Estimator {
	samples := cfg.MCDropoutSamples
	if samples <= 0 {
		samples = defaultSamples
	}
	return &Estimator{samples: samples, logger: logger}
}

// Samples returns the configured number of stochastic passes.
func (e *Estimator) Samples() int {
	return e.samples
}

// MonteCarloDropout runs the configured number of stochastic forward passes
// and returns per-row mean, standard deviation, a 95% prediction interval for
// the regression head, and binary entropy for the classification head. The
// model must re-sample its dropout noise on every stochastic call; a failed
// pass fails the whole estimate.
func (e *Estimator) MonteCarloDropout(ctx context.Context, m model.Model, in *model.Input) (*models.UncertaintyEstimate, error) {
	n := in.Len()
	regSamples := make([][]float64, n)
	clsSamples := make([][]float64, n)

	for pass := 0; pass < e.samples; pass++ {
		out, err := m.Predict(ctx, in, true)
		if err != nil {
			return nil, fmt.Errorf("stochastic pass %d: %w", pass, err)
		}
		if len(out.Regression) != n || len(out.Classification) != n {
			return nil, fmt.Errorf("%w: pass %d returned %d/%d rows, want %d",
				model.ErrOutputShape, pass, len(out.Regression), len(out.Classification), n)
		}
		for row := 0; row < n; row++ {
			regSamples[row] = append(regSamples[row], out.Regression[row])
			clsSamples[row] = append(clsSamples[row], out.Classification[row])
		}
	}
	model.UncertaintySamplesTotal.WithLabelValues(string(in.Sport)).Add(float64(e.samples))

	est := newEstimate(n)
	for row := 0; row < n; row++ {
		mean, _ := stats.Mean(regSamples[row])
		std, _ := stats.StandardDeviation(regSamples[row])
		est.RegressionMean[row] = mean
		est.RegressionStd[row] = std
		est.RegressionLower[row] = mean - intervalZ*std
		est.RegressionUpper[row] = mean + intervalZ*std

		clsMean, _ := stats.Mean(clsSamples[row])
		clsStd, _ := stats.StandardDeviation(clsSamples[row])
		est.ClassificationMean[row] = clsMean
		est.ClassificationStd[row] = clsStd
		est.ClassificationEntropy[row] = binaryEntropy(clsMean)
	}

	e.logger.WithFields(logrus.Fields{
		"sport":   in.Sport,
		"rows":    n,
		"samples": e.samples,
	}).Debug("Monte Carlo dropout estimate complete")

	return est, nil
}

// FromEnsemble converts an ensemble output distribution into the same
// estimate shape that Monte Carlo sampling produces, so downstream confidence
// scoring treats the two sources uniformly.
func FromEnsemble(dist *model.Distribution) *models.UncertaintyEstimate {
	n := len(dist.RegressionMean)
	est := newEstimate(n)
	for row := 0; row < n; row++ {
		mean := dist.RegressionMean[row]
		std := dist.RegressionStd[row]
		est.RegressionMean[row] = mean
		est.RegressionStd[row] = std
		est.RegressionLower[row] = mean - intervalZ*std
		est.RegressionUpper[row] = mean + intervalZ*std
		est.ClassificationMean[row] = dist.ClassificationMean[row]
		est.ClassificationStd[row] = dist.ClassificationStd[row]
		est.ClassificationEntropy[row] = binaryEntropy(dist.ClassificationMean[row])
	}
	return est
}

// QuantileEstimate approximates quantile-based uncertainty by relabeling the
// Monte Carlo interval bounds as the 2.5% and 97.5% quantiles of the sampled
// distribution. True pinball-loss quantile heads live in the model service;
// this keeps the interval semantics consistent when that head is unavailable.
func (e *Estimator) QuantileEstimate(ctx context.Context, m model.Model, in *model.Input) (*models.UncertaintyEstimate, error) {
	return e.MonteCarloDropout(ctx, m, in)
}

func newEstimate(n int) *models.UncertaintyEstimate {
	return &models.UncertaintyEstimate{
		RegressionMean:        make([]float64, n),
		RegressionStd:         make([]float64, n),
		RegressionLower:       make([]float64, n),
		RegressionUpper:       make([]float64, n),
		ClassificationMean:    make([]float64, n),
		ClassificationStd:     make([]float64, n),
		ClassificationEntropy: make([]float64, n),
	}
}

// binaryEntropy computes the entropy of a Bernoulli(p) outcome in nats.
func binaryEntropy(p float64) float64 {
	return -(p*math.Log(p+entropyEpsilon) + (1-p)*math.Log(1-p+entropyEpsilon))
}
