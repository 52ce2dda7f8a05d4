// Package model defines the prediction-model boundary: a black-box dual-head
// function over engineered features, optionally stochastic for uncertainty
// sampling, plus the per-sport registry and ensemble built on top of it.
package model

import (
	"context"

	"github.com/masterkanin/sports-predictor/internal/models"
)

// Input is one engineered-feature batch handed to a model, one row per
// entity.
type Input struct {
	Sport models.Sport
	Rows  []models.FeatureRow
}

// Len returns the number of entities in the batch.
func (in *Input) Len() int {
	return len(in.Rows)
}

// Output is a dual-head model response: a point-estimate regression value and
// an over-probability per input row.
type Output struct {
	Regression     []float64
	Classification []float64
}

// Model is the prediction boundary. When stochastic is true the model must
// independently re-sample its internal randomness (dropout-style noise) on
// every call; this is an explicit capability of the boundary, not a
// training-mode side channel. Errors are fatal for the call and are never
// swallowed here.
type Model interface {
	Predict(ctx context.Context, in *Input, stochastic bool) (*Output, error)
}
