package model

import (
	"context"
	"fmt"

	"github.com/montanaflynn/stats"
)

// Ensemble is a fixed list of independently-trained models exposed through a
// single distribution-producing operation.
type Ensemble struct {
	members []Model
}

// NewEnsemble creates an ensemble over the given members.
func NewEnsemble(members ...Model) *Ensemble {
	return &Ensemble{members: members}
}

// Size returns the number of member models.
func (e *Ensemble) Size() int {
	return len(e.members)
}

// Distribution is the per-row mean and standard deviation of the ensemble's
// outputs.
type Distribution struct {
	RegressionMean     []float64
	RegressionStd      []float64
	ClassificationMean []float64
	ClassificationStd  []float64
}

// PredictDistribution runs one deterministic forward pass per member and
// aggregates the outputs into per-row mean and standard deviation. A member
// failure fails the whole call.
func (e *Ensemble) PredictDistribution(ctx context.Context, in *Input) (*Distribution, error) {
	if len(e.members) == 0 {
		return nil, ErrEmptyEnsemble
	}

	n := in.Len()
	regSamples := make([][]float64, n)
	clsSamples := make([][]float64, n)

	for i, member := range e.members {
		out, err := member.Predict(ctx, in, false)
		if err != nil {
			return nil, fmt.Errorf("ensemble member %d: %w", i, err)
		}
		if len(out.Regression) != n || len(out.Classification) != n {
			return nil, fmt.Errorf("%w: member %d returned %d/%d rows, want %d",
				ErrOutputShape, i, len(out.Regression), len(out.Classification), n)
		}
		for row := 0; row < n; row++ {
			regSamples[row] = append(regSamples[row], out.Regression[row])
			clsSamples[row] = append(clsSamples[row], out.Classification[row])
		}
	}

	dist := &Distribution{
		RegressionMean:     make([]float64, n),
		RegressionStd:      make([]float64, n),
		ClassificationMean: make([]float64, n),
		ClassificationStd:  make([]float64, n),
	}
	for row := 0; row < n; row++ {
		dist.RegressionMean[row], _ = stats.Mean(regSamples[row])
		dist.RegressionStd[row], _ = stats.StandardDeviation(regSamples[row])
		dist.ClassificationMean[row], _ = stats.Mean(clsSamples[row])
		dist.ClassificationStd[row], _ = stats.StandardDeviation(clsSamples[row])
	}
	return dist, nil
}
