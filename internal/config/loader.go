// Package config provides configuration management for the sports predictor.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	// Read the configuration file
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the configuration (${VAR} syntax)
	expanded := os.ExpandEnv(string(data))

	v := newViper()
	if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional
// fields. Missing config files are tolerated; defaults and environment
// variables take over.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v := newViper()
	setDefaults(v)

	// Read and expand the configuration file if it exists
	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("SPORTS_PREDICTOR")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "sports-predictor")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	// Core pipeline defaults
	v.SetDefault("features.rolling_window_sizes", []int{3, 5, 10})
	v.SetDefault("features.matchup_stat_limit", 3)
	v.SetDefault("features.home_away_window", 10)
	v.SetDefault("uncertainty.mc_dropout_samples", 100)
	v.SetDefault("uncertainty.max_expected_std", 10.0)
	v.SetDefault("prediction.ensemble_blend_weight", 0.5)
	v.SetDefault("monitoring.trailing_window_days", 7)
	v.SetDefault("monitoring.drift_window_days", 30)
	v.SetDefault("monitoring.drift_history_path", "distribution_history.json")
	v.SetDefault("monitoring.alert_thresholds.mse_increase", 0.2)
	v.SetDefault("monitoring.alert_thresholds.accuracy_decrease", 0.1)
	v.SetDefault("monitoring.alert_thresholds.drift_score", 0.05)

	v.SetDefault("model_service.request_timeout_seconds", 30)
	v.SetDefault("model_service.retry_attempts", 3)
	v.SetDefault("model_service.cache_ttl_seconds", 300)
	v.SetDefault("model_service.cache_max_size", 10000)

	v.SetDefault("collectors.schedule.daily_collection", "0 6 * * *")
	v.SetDefault("collectors.schedule.daily_prediction", "0 8 * * *")
	v.SetDefault("collectors.schedule.daily_tracking", "0 4 * * *")
}
