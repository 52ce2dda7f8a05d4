// Package model provides Prometheus metrics for prediction operations.
package model

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PredictionsTotal tracks successful model service calls
	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sports_predictor",
			Name:      "model_predictions_total",
			Help:      "Total number of successful model predictions",
		},
		[]string{"sport", "variant"},
	)

	// PredictionErrorsTotal tracks failed model service calls
	PredictionErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sports_predictor",
			Name:      "model_prediction_errors_total",
			Help:      "Total number of failed model predictions",
		},
		[]string{"sport", "error_type"},
	)

	// PredictionLatency tracks model service call latency
	PredictionLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sports_predictor",
			Name:      "model_prediction_latency_seconds",
			Help:      "Model prediction latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"sport", "variant"},
	)

	// CacheHitRatio tracks the prediction cache hit ratio
	CacheHitRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "sports_predictor",
			Name:      "model_cache_hit_ratio",
			Help:      "Prediction cache hit ratio",
		},
	)

	// UncertaintySamplesTotal tracks stochastic forward passes
	UncertaintySamplesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sports_predictor",
			Name:      "uncertainty_samples_total",
			Help:      "Total number of stochastic forward passes executed",
		},
		[]string{"sport"},
	)
)
