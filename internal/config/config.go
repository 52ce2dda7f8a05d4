// Package config provides configuration management for the sports predictor.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App          AppConfig          `mapstructure:"app" validate:"required"`
	Database     DatabaseConfig     `mapstructure:"database" validate:"required"`
	ModelService ModelServiceConfig `mapstructure:"model_service" validate:"required"`
	Collectors   CollectorsConfig   `mapstructure:"collectors" validate:"required"`
	Features     FeaturesConfig     `mapstructure:"features" validate:"required"`
	Uncertainty  UncertaintyConfig  `mapstructure:"uncertainty" validate:"required"`
	Prediction   PredictionConfig   `mapstructure:"prediction" validate:"required"`
	Monitoring   MonitoringConfig   `mapstructure:"monitoring" validate:"required"`
	Metrics      MetricsConfig      `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// ModelServiceConfig represents the external model service configuration
type ModelServiceConfig struct {
	HTTPAddress           string `mapstructure:"http_address" validate:"required"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
	RetryAttempts         int    `mapstructure:"retry_attempts" validate:"gte=0"`
	CacheTTLSeconds       int    `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	CacheMaxSize          int    `mapstructure:"cache_max_size" validate:"required,gt=0"`
	EnsembleSize          int    `mapstructure:"ensemble_size" validate:"gte=0"`
}

// CollectorsConfig represents sports data collection configuration
type CollectorsConfig struct {
	Sources  []SportSourceConfig `mapstructure:"sources" validate:"required,min=1"`
	Schedule ScheduleConfig      `mapstructure:"schedule" validate:"required"`
}

// SportSourceConfig represents a single sport data source
type SportSourceConfig struct {
	Sport     string  `mapstructure:"sport" validate:"required,sport"`
	Enabled   bool    `mapstructure:"enabled"`
	BaseURL   string  `mapstructure:"base_url" validate:"required,url"`
	APIKey    string  `mapstructure:"api_key"`
	RateLimit float64 `mapstructure:"rate_limit" validate:"gt=0"`
	BatchSize int     `mapstructure:"batch_size" validate:"omitempty,gt=0"`
}

// ScheduleConfig represents the automation schedule
type ScheduleConfig struct {
	DailyCollection string `mapstructure:"daily_collection" validate:"required"`
	DailyPrediction string `mapstructure:"daily_prediction" validate:"required"`
	DailyTracking   string `mapstructure:"daily_tracking" validate:"required"`
}

// FeaturesConfig represents feature engineering configuration
type FeaturesConfig struct {
	RollingWindowSizes []int `mapstructure:"rolling_window_sizes" validate:"required,min=1,dive,gt=0"`
	MatchupStatLimit   int   `mapstructure:"matchup_stat_limit" validate:"required,gt=0"`
	HomeAwayWindow     int   `mapstructure:"home_away_window" validate:"required,gt=0"`
}

// UncertaintyConfig represents uncertainty estimation configuration
type UncertaintyConfig struct {
	MCDropoutSamples int     `mapstructure:"mc_dropout_samples" validate:"required,gt=0"`
	MaxExpectedStd   float64 `mapstructure:"max_expected_std" validate:"required,gt=0"`
}

// PredictionConfig represents prediction pipeline configuration
type PredictionConfig struct {
	EnsembleBlendWeight float64 `mapstructure:"ensemble_blend_weight" validate:"gte=0,lte=1"`
}

// MonitoringConfig represents performance monitoring configuration
type MonitoringConfig struct {
	TrailingWindowDays int                   `mapstructure:"trailing_window_days" validate:"required,gt=0"`
	DriftWindowDays    int                   `mapstructure:"drift_window_days" validate:"gte=0"`
	DriftHistoryPath   string                `mapstructure:"drift_history_path"`
	AlertThresholds    AlertThresholdsConfig `mapstructure:"alert_thresholds" validate:"required"`
}

// AlertThresholdsConfig represents degradation alert thresholds
type AlertThresholdsConfig struct {
	MSEIncrease      float64 `mapstructure:"mse_increase" validate:"gt=0"`
	AccuracyDecrease float64 `mapstructure:"accuracy_decrease" validate:"gt=0"`
	DriftScore       float64 `mapstructure:"drift_score" validate:"gte=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return c.Database.DSN()
}

// DSN returns a PostgreSQL DSN string
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Name,
		d.SSLMode,
	)
}

// SourceForSport returns the collector source config for a sport, if present
func (c *Config) SourceForSport(sport string) (SportSourceConfig, bool) {
	for _, src := range c.Collectors.Sources {
		if src.Sport == sport {
			return src, true
		}
	}
	return SportSourceConfig{}, false
}
