// Package pipeline orchestrates daily prediction generation: engineered
// features in, formatted prediction records out, one batch per sport with
// failures isolated so a broken feed never silences the other sports.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/masterkanin/sports-predictor/internal/config"
	"github.com/masterkanin/sports-predictor/internal/features"
	"github.com/masterkanin/sports-predictor/internal/logger"
	"github.com/masterkanin/sports-predictor/internal/model"
	"github.com/masterkanin/sports-predictor/internal/models"
	"github.com/masterkanin/sports-predictor/internal/uncertainty"
)

// SportData is the raw input for one sport's prediction run.
type SportData struct {
	Records []models.GameRecord
	Lines   []models.PropLine
}

// Pipeline wires feature engineering, the model registry, uncertainty
// estimation and line matching into a single prediction flow.
type Pipeline struct {
	engine      *features.Engine
	registry    *model.Registry
	estimator   *uncertainty.Estimator
	scorer      *uncertainty.Scorer
	cache       *model.PredictionCache
	blendWeight float64
	logger      *logger.PipelineLogger
}

// New creates a prediction pipeline.
func New(cfg *config.Config, registry *model.Registry, baseLogger *logrus.Logger) *Pipeline {
	ttl := time.Duration(cfg.ModelService.CacheTTLSeconds) * time.Second
	return &Pipeline{
		engine:      features.NewEngine(cfg.Features, baseLogger),
		registry:    registry,
		estimator:   uncertainty.NewEstimator(cfg.Uncertainty, baseLogger),
		scorer:      uncertainty.NewScorer(cfg.Uncertainty),
		cache:       model.NewPredictionCache(ttl, cfg.ModelService.CacheMaxSize),
		blendWeight: cfg.Prediction.EnsembleBlendWeight,
		logger:      logger.NewPipelineLogger(baseLogger),
	}
}

// PredictAll runs every sport in the input. A failing sport contributes an
// empty list and an error log; it never aborts the batch.
func (p *Pipeline) PredictAll(ctx context.Context, data map[models.Sport]SportData) map[models.Sport][]models.PredictionRecord {
	results := make(map[models.Sport][]models.PredictionRecord, len(data))
	for _, sport := range models.Sports {
		sportData, ok := data[sport]
		if !ok {
			continue
		}
		predictions, err := p.PredictSport(ctx, sport, sportData)
		if err != nil {
			p.logger.LogSportFailure(string(sport), "predict", err.Error())
			results[sport] = []models.PredictionRecord{}
			continue
		}
		results[sport] = predictions
	}
	return results
}

// PredictSport generates predictions for one sport from its game history and
// current sportsbook lines. The most recent engineered row per player is the
// feature vector for the upcoming game.
func (p *Pipeline) PredictSport(ctx context.Context, sport models.Sport, data SportData) ([]models.PredictionRecord, error) {
	start := time.Now()

	primary, err := p.registry.Primary(sport)
	if err != nil {
		return nil, err
	}

	rows := p.engine.EngineerPlayerFeatures(data.Records)
	latest := latestRowPerEntity(rows)
	p.logger.LogFeatureEngineering(string(sport), len(data.Records), featureColumns(latest), len(latest))
	if len(latest) == 0 {
		return []models.PredictionRecord{}, nil
	}

	cached, pending := p.partitionCached(sport, latest)

	var fresh []models.PredictionRecord
	if len(pending) > 0 {
		fresh, err = p.predictRows(ctx, sport, primary, pending, data.Lines)
		if err != nil {
			return nil, err
		}
		for i, row := range pending {
			p.cache.Set(cacheKey(sport, row), &fresh[i])
		}
	}

	predictions := append(cached, fresh...)
	p.logger.LogPredictionBatch(string(sport), len(latest), len(predictions),
		p.registry.EnsembleFor(sport) != nil, float64(time.Since(start).Milliseconds()))
	return predictions, nil
}

// predictRows runs the model, uncertainty and formatting steps for rows that
// missed the cache.
func (p *Pipeline) predictRows(ctx context.Context, sport models.Sport, primary model.Model, rows []models.FeatureRow, lines []models.PropLine) ([]models.PredictionRecord, error) {
	in := &model.Input{Sport: sport, Rows: rows}

	out, err := primary.Predict(ctx, in, false)
	if err != nil {
		return nil, err
	}

	est, err := p.estimator.MonteCarloDropout(ctx, primary, in)
	if err != nil {
		return nil, err
	}

	regression := out.Regression
	classification := out.Classification
	if ens := p.registry.EnsembleFor(sport); ens != nil {
		dist, err := ens.PredictDistribution(ctx, in)
		if err != nil {
			return nil, err
		}
		ensEst := uncertainty.FromEnsemble(dist)
		regression = blend(regression, ensEst.RegressionMean, p.blendWeight)
		classification = blend(classification, ensEst.ClassificationMean, p.blendWeight)
	}

	var confidenceSum float64
	predictions := make([]models.PredictionRecord, len(rows))
	for i, row := range rows {
		score := p.scorer.Score(est.RegressionStd[i], est.ClassificationStd[i])
		confidenceSum += score

		record := models.PredictionRecord{
			ID:              uuid.New(),
			Sport:           sport,
			Player:          row.EntityName,
			Team:            row.Team,
			Opponent:        row.Opponent,
			GameDate:        row.GameDate,
			Stat:            row.StatType,
			PredictedValue:  regression[i],
			OverProbability: classification[i],
			Confidence:      uncertainty.Categorize(score),
			ConfidenceScore: score,
			PredictionRange: [2]float64{
				regression[i] - est.RegressionStd[i],
				regression[i] + est.RegressionStd[i],
			},
			TopFactors:  topFactors(row, regression[i]),
			PredictedAt: time.Now().UTC(),
		}
		if line := matchLine(row, lines); line != nil {
			v := line.LineValue()
			record.Line = &v
		}
		predictions[i] = record
	}

	p.logger.LogUncertaintyPass(string(sport), p.estimator.Samples(), len(rows), confidenceSum/float64(len(rows)))
	return predictions, nil
}

// partitionCached splits the feature rows into already-cached prediction
// records and rows still needing a model call.
func (p *Pipeline) partitionCached(sport models.Sport, rows []models.FeatureRow) ([]models.PredictionRecord, []models.FeatureRow) {
	var cached []models.PredictionRecord
	var pending []models.FeatureRow
	for _, row := range rows {
		if rec := p.cache.Get(cacheKey(sport, row)); rec != nil {
			cached = append(cached, *rec)
			continue
		}
		pending = append(pending, row)
	}
	return cached, pending
}

func cacheKey(sport models.Sport, row models.FeatureRow) model.CacheKey {
	return model.CacheKey{
		Sport:    sport,
		EntityID: row.EntityID,
		Stat:     row.StatType,
		GameDate: row.GameDate,
	}
}

// matchLine finds the sportsbook line for a player and stat, if any book
// posted one.
func matchLine(row models.FeatureRow, lines []models.PropLine) *models.PropLine {
	for i := range lines {
		if lines[i].PlayerName == row.EntityName && lines[i].StatType == row.StatType {
			return &lines[i]
		}
	}
	return nil
}

// latestRowPerEntity keeps each entity's most recent engineered row, which
// carries the shifted history the upcoming game should be predicted from.
func latestRowPerEntity(rows []models.FeatureRow) []models.FeatureRow {
	latestIdx := make(map[string]int)
	var order []string
	for i, row := range rows {
		prev, seen := latestIdx[row.EntityID]
		if !seen {
			latestIdx[row.EntityID] = i
			order = append(order, row.EntityID)
			continue
		}
		if row.GameDate.After(rows[prev].GameDate) {
			latestIdx[row.EntityID] = i
		}
	}

	latest := make([]models.FeatureRow, 0, len(order))
	for _, id := range order {
		latest = append(latest, rows[latestIdx[id]])
	}
	return latest
}

func featureColumns(rows []models.FeatureRow) int {
	if len(rows) == 0 {
		return 0
	}
	return len(rows[0].Features)
}

// blend mixes primary and ensemble outputs: weight is the ensemble share.
func blend(primary, ensemble []float64, weight float64) []float64 {
	blended := make([]float64, len(primary))
	for i := range primary {
		blended[i] = (1-weight)*primary[i] + weight*ensemble[i]
	}
	return blended
}
