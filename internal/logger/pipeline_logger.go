// Package logger provides pipeline-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// PipelineLogger provides dedicated logging for the prediction pipeline.
type PipelineLogger struct {
	*logrus.Entry
}

// NewPipelineLogger creates a new pipeline logger.
func NewPipelineLogger(baseLogger *logrus.Logger) *PipelineLogger {
	return &PipelineLogger{
		Entry: WithComponent(baseLogger, "pipeline"),
	}
}

// LogPredictionBatch logs a completed per-sport prediction batch.
func (pl *PipelineLogger) LogPredictionBatch(sport string, playerCount int, predictionsGenerated int, ensembleBlended bool, latencyMs float64) {
	pl.WithFields(logrus.Fields{
		"sport":                 sport,
		"player_count":          playerCount,
		"predictions_generated": predictionsGenerated,
		"ensemble_blended":      ensembleBlended,
		"latency_ms":            latencyMs,
	}).Info("Prediction batch completed")
}

// LogUncertaintyPass logs a Monte Carlo dropout pass.
func (pl *PipelineLogger) LogUncertaintyPass(sport string, samples int, itemCount int, meanConfidence float64) {
	pl.WithFields(logrus.Fields{
		"sport":           sport,
		"samples":         samples,
		"item_count":      itemCount,
		"mean_confidence": meanConfidence,
	}).Info("Uncertainty estimation completed")
}

// LogFeatureEngineering logs a feature engineering run.
func (pl *PipelineLogger) LogFeatureEngineering(sport string, inputRecords int, featureColumns int, entityCount int) {
	pl.WithFields(logrus.Fields{
		"sport":           sport,
		"input_records":   inputRecords,
		"feature_columns": featureColumns,
		"entity_count":    entityCount,
	}).Info("Feature engineering completed")
}

// LogDegradationAlert logs a performance degradation alert.
func (pl *PipelineLogger) LogDegradationAlert(sport string, metric string, current float64, trailing float64) {
	pl.WithFields(logrus.Fields{
		"sport":    sport,
		"metric":   metric,
		"current":  current,
		"trailing": trailing,
	}).Warn("Performance degradation detected")
}

// LogSportFailure logs an isolated per-sport pipeline failure.
func (pl *PipelineLogger) LogSportFailure(sport string, stage string, errorReason string) {
	pl.WithFields(logrus.Fields{
		"sport":        sport,
		"stage":        stage,
		"error_reason": errorReason,
	}).Error("Sport pipeline failed")
}
