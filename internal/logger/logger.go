// Package logger provides a wrapper around logrus for structured logging.
package logger

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// NewLogger creates a new configured logger instance
func NewLogger(logLevel string) *logrus.Logger {
	logger := logrus.New()

	// Set output to stdout
	logger.SetOutput(os.Stdout)

	// Parse and set log level
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logger.Warnf("Invalid log level '%s', defaulting to info", logLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	// Use JSON formatter for structured logging in production
	if isProduction() {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	} else {
		// Use text formatter with colors for development
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	return logger
}

// WithComponent derives an entry tagged with the owning component, the field
// the pipeline and collectors log under.
func WithComponent(logger *logrus.Logger, component string) *logrus.Entry {
	return logger.WithField("component", component)
}

// isProduction honors the same env prefix the config loader uses, falling
// back to the plain ENVIRONMENT variable.
func isProduction() bool {
	if env := os.Getenv("SPORTS_PREDICTOR_APP_ENVIRONMENT"); env != "" {
		return env == "production"
	}
	return os.Getenv("ENVIRONMENT") == "production"
}
