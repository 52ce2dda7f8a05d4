// Package normalize maps sport-specific statistics onto a common set of
// semantic categories and z-scores them against fitted per-stat parameters.
package normalize

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"

	"github.com/masterkanin/sports-predictor/internal/models"
)

// fallbackScale is the degraded-mode divisor applied when no fitted
// parameters exist for a stat. Deliberate policy, not an error: collectors
// routinely surface stats the normalizer was never fitted on.
const fallbackScale = 100.0

// Params holds the fitted z-score parameters for one (sport, stat) pair.
// Std is floored at 1.0 during fitting so division never collapses.
type Params struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// Normalizer converts heterogeneous per-sport stats into the common category
// space. Fitted parameters are read-mostly: Fit and Load take the write lock,
// everything else reads.
type Normalizer struct {
	mu       sync.RWMutex
	mappings map[models.Sport]map[string]Category
	params   map[models.Sport]map[string]Params
	logger   *logrus.Logger
}

// NewNormalizer creates a normalizer with the static per-sport stat tables.
func NewNormalizer(logger *logrus.Logger) *Normalizer {
	return &Normalizer{
		mappings: buildStatMappings(),
		params:   make(map[models.Sport]map[string]Params),
		logger:   logger,
	}
}

// Fit computes mean and standard deviation for every numeric stat observed in
// each sport's records. Missing entries are ignored, not treated as zero. A
// zero standard deviation is replaced with 1.0.
func (n *Normalizer) Fit(data map[models.Sport][]models.GameRecord) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for sport, records := range data {
		observed := make(map[string][]float64)
		for _, rec := range records {
			for stat, value := range rec.Stats {
				observed[stat] = append(observed[stat], value)
			}
		}

		if n.params[sport] == nil {
			n.params[sport] = make(map[string]Params)
		}
		for stat, values := range observed {
			mean, _ := stats.Mean(values)
			std, _ := stats.StandardDeviation(values)
			if std <= 0 {
				std = 1.0
			}
			n.params[sport][stat] = Params{Mean: mean, Std: std}
		}

		n.logger.WithFields(logrus.Fields{
			"sport": sport,
			"stats": len(observed),
		}).Debug("Fitted normalization parameters")
	}
}

// NormalizeStat z-scores a single stat value using fitted parameters. When no
// parameters exist for the stat it falls back to dividing by 100, a
// documented degraded mode rather than an error.
func (n *Normalizer) NormalizeStat(sport models.Sport, stat string, value float64) float64 {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if p, ok := n.params[sport][stat]; ok {
		return (value - p.Mean) / p.Std
	}
	return value / fallbackScale
}

// DenormalizeStat is the exact inverse of NormalizeStat.
func (n *Normalizer) DenormalizeStat(sport models.Sport, stat string, normalized float64) float64 {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if p, ok := n.params[sport][stat]; ok {
		return normalized*p.Std + p.Mean
	}
	return normalized * fallbackScale
}

// Transform maps every raw stat through the sport's category table,
// normalizes it, and averages all stats landing in the same category for a
// given record into one value per category. Categories with no contributing
// stat default to 0.0. An unknown sport yields an empty mapping, so every
// category stays at its default; unknown stat names are silently excluded.
func (n *Normalizer) Transform(data map[models.Sport][]models.GameRecord) map[Category][]float64 {
	n.mu.RLock()
	defer n.mu.RUnlock()

	out := make(map[Category][]float64, len(Categories))
	for _, c := range Categories {
		out[c] = []float64{}
	}

	for _, sport := range models.Sports {
		records, ok := data[sport]
		if !ok {
			continue
		}
		mapping := n.mappings[sport]
		if mapping == nil {
			n.logger.WithField("sport", sport).Warn("No stat mapping for sport; categories default to 0")
		}

		for _, rec := range records {
			sums := make(map[Category]float64)
			counts := make(map[Category]int)
			for stat, value := range rec.Stats {
				category, ok := mapping[stat]
				if !ok {
					continue
				}
				sums[category] += n.normalizeLocked(sport, stat, value)
				counts[category]++
			}
			for _, c := range Categories {
				if counts[c] > 0 {
					out[c] = append(out[c], sums[c]/float64(counts[c]))
				} else {
					out[c] = append(out[c], 0.0)
				}
			}
		}
	}

	return out
}

// FitTransform fits the normalizer and transforms the data in one call.
func (n *Normalizer) FitTransform(data map[models.Sport][]models.GameRecord) map[Category][]float64 {
	n.Fit(data)
	return n.Transform(data)
}

// InverseTransform converts category-space values back to sport-specific stat
// scale, producing one series per stat mapped into the category.
func (n *Normalizer) InverseTransform(normalized map[Category][]float64, sport models.Sport) map[string][]float64 {
	n.mu.RLock()
	defer n.mu.RUnlock()

	reverse := make(map[Category][]string)
	for stat, category := range n.mappings[sport] {
		reverse[category] = append(reverse[category], stat)
	}

	out := make(map[string][]float64)
	for category, values := range normalized {
		for _, stat := range reverse[category] {
			series := make([]float64, len(values))
			for i, v := range values {
				if p, ok := n.params[sport][stat]; ok {
					series[i] = v*p.Std + p.Mean
				} else {
					series[i] = v * fallbackScale
				}
			}
			out[stat] = series
		}
	}
	return out
}

// normalizeLocked assumes the read lock is held.
func (n *Normalizer) normalizeLocked(sport models.Sport, stat string, value float64) float64 {
	if p, ok := n.params[sport][stat]; ok {
		return (value - p.Mean) / p.Std
	}
	return value / fallbackScale
}

// persistedState is the on-disk shape of fitted parameters.
type persistedState struct {
	NormalizationParams map[models.Sport]map[string]Params `json:"normalization_params"`
}

// Save writes fitted parameters to a JSON file.
func (n *Normalizer) Save(path string) error {
	n.mu.RLock()
	state := persistedState{NormalizationParams: n.params}
	data, err := json.MarshalIndent(state, "", "  ")
	n.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal normalizer state: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write normalizer state: %w", err)
	}
	return nil
}

// Load replaces fitted parameters with previously saved ones.
func (n *Normalizer) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read normalizer state: %w", err)
	}
	var state persistedState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("failed to parse normalizer state: %w", err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if state.NormalizationParams != nil {
		n.params = state.NormalizationParams
	}
	return nil
}
