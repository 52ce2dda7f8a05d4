// Package collectors fetches player stats, team stats, schedules, injuries
// and sportsbook prop lines from per-sport provider APIs, normalized into the
// shared record types.
package collectors

import (
	"context"
	"errors"
	"time"

	"github.com/masterkanin/sports-predictor/internal/models"
)

// Collector defines the interface for fetching one sport's data from an
// external provider.
type Collector interface {
	// CollectPlayerStats retrieves settled per-player box scores for a date
	CollectPlayerStats(ctx context.Context, date time.Time) ([]models.GameRecord, error)

	// CollectTeamStats retrieves settled per-team results for a date
	CollectTeamStats(ctx context.Context, date time.Time) ([]models.GameRecord, error)

	// CollectSchedules retrieves the fixture list for a season
	CollectSchedules(ctx context.Context, season string) ([]models.ScheduledGame, error)

	// CollectInjuries retrieves the current injury report
	CollectInjuries(ctx context.Context) ([]models.InjuryReport, error)

	// CollectPropLines retrieves sportsbook over/under lines for a date
	CollectPropLines(ctx context.Context, date time.Time) ([]models.PropLine, error)

	// Sport returns the sport this collector serves
	Sport() models.Sport

	// IsEnabled returns whether this collector is currently enabled
	IsEnabled() bool
}

// CollectorError represents errors from collector operations
type CollectorError struct {
	Sport   string // Sport name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e CollectorError) Error() string {
	if e.Err != nil {
		return e.Sport + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Sport + ": " + e.Code + ": " + e.Message
}

func (e CollectorError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeDisabled             = "disabled"
)

var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
	ErrCollectorDisabled    = errors.New("collector disabled")
)

// NewCollectorError creates a new collector error
func NewCollectorError(sport, code, message string, err error) CollectorError {
	return CollectorError{
		Sport:   sport,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
