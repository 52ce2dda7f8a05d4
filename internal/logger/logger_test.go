package logger

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewLoggerLevel(t *testing.T) {
	logger := NewLogger("debug")
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
}

func TestNewLoggerInvalidLevelDefaultsToInfo(t *testing.T) {
	logger := NewLogger("verbose")
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}

func TestNewLoggerProductionUsesJSON(t *testing.T) {
	os.Setenv("SPORTS_PREDICTOR_APP_ENVIRONMENT", "production")
	defer os.Unsetenv("SPORTS_PREDICTOR_APP_ENVIRONMENT")

	logger := NewLogger("info")
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
}

func TestNewLoggerDevelopmentUsesText(t *testing.T) {
	os.Unsetenv("SPORTS_PREDICTOR_APP_ENVIRONMENT")
	os.Unsetenv("ENVIRONMENT")

	logger := NewLogger("info")
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}

func TestWithComponent(t *testing.T) {
	entry := WithComponent(NewLogger("info"), "collectors")
	assert.Equal(t, "collectors", entry.Data["component"])
}
