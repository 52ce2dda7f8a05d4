package collectors

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/masterkanin/sports-predictor/internal/config"
	"github.com/masterkanin/sports-predictor/internal/models"
)

// Factory creates Collector implementations based on configuration
type Factory struct {
	logger *logrus.Logger
}

// NewFactory creates a new collector factory
func NewFactory(logger *logrus.Logger) *Factory {
	return &Factory{logger: logger}
}

// NewCollector creates a collector for the configured sport
func (f *Factory) NewCollector(cfg config.SportSourceConfig, httpClient *RateLimitedHTTPClient) (Collector, error) {
	if httpClient == nil {
		return nil, fmt.Errorf("HTTP client is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: API key is required", cfg.Sport)
	}

	switch models.Sport(cfg.Sport) {
	case models.SportNBA:
		return NewNBACollector(cfg, httpClient, f.logger), nil
	case models.SportNFL:
		return NewNFLCollector(cfg, httpClient, f.logger), nil
	case models.SportMLB:
		return NewMLBCollector(cfg, httpClient, f.logger), nil
	case models.SportNHL:
		return NewNHLCollector(cfg, httpClient, f.logger), nil
	case models.SportSoccer:
		return NewSoccerCollector(cfg, httpClient, f.logger), nil
	default:
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidSport, cfg.Sport)
	}
}

// BuildAll creates a collector per configured source. Sources that fail to
// construct are skipped with an error log so one bad entry does not block the
// remaining sports.
func (f *Factory) BuildAll(cfg config.CollectorsConfig) []Collector {
	var built []Collector
	for _, source := range cfg.Sources {
		client := NewRateLimitedHTTPClient(clientConfigFor(source), f.logger)
		collector, err := f.NewCollector(source, client)
		if err != nil {
			f.logger.WithError(err).WithField("sport", source.Sport).
				Error("Skipping collector")
			continue
		}
		built = append(built, collector)
	}
	return built
}

func clientConfigFor(source config.SportSourceConfig) HTTPClientConfig {
	cfg := DefaultHTTPClientConfig()
	if source.RateLimit > 0 {
		cfg.RateLimit = source.RateLimit
	}
	return cfg
}
