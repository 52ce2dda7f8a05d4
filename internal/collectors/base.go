package collectors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/masterkanin/sports-predictor/internal/config"
	"github.com/masterkanin/sports-predictor/internal/models"
)

// apiCollector carries the provider plumbing shared by every sport:
// authenticated JSON fetching and the schedule, injury and prop-line
// endpoints whose wire shapes do not vary per sport.
type apiCollector struct {
	sport      models.Sport
	baseURL    string
	apiKey     string
	enabled    bool
	httpClient *RateLimitedHTTPClient
	logger     *logrus.Logger
}

func newAPICollector(cfg config.SportSourceConfig, httpClient *RateLimitedHTTPClient, logger *logrus.Logger) apiCollector {
	return apiCollector{
		sport:      models.Sport(cfg.Sport),
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		enabled:    cfg.Enabled,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Sport returns the sport this collector serves
func (c *apiCollector) Sport() models.Sport {
	return c.sport
}

// IsEnabled returns whether this collector is currently enabled
func (c *apiCollector) IsEnabled() bool {
	return c.enabled
}

// getJSON fetches an authenticated endpoint and decodes the response body.
func (c *apiCollector) getJSON(ctx context.Context, path string, out any) error {
	sport := string(c.sport)
	if !c.enabled {
		return NewCollectorError(sport, ErrCodeDisabled, "collector disabled", ErrCollectorDisabled)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return NewCollectorError(sport, ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return NewCollectorError(sport, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return NewCollectorError(sport, ErrCodeAuthenticationFailed, "invalid API key", ErrAuthenticationFailed)
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewCollectorError(sport, ErrCodeRateLimitExceeded, "rate limit exceeded", ErrRateLimitExceeded)
	case resp.StatusCode == http.StatusNotFound:
		return NewCollectorError(sport, ErrCodeNotFound, "endpoint not found", ErrNotFound)
	case resp.StatusCode >= 500:
		return NewCollectorError(sport, ErrCodeServerError, fmt.Sprintf("server error: %d", resp.StatusCode), nil)
	case resp.StatusCode != http.StatusOK:
		return NewCollectorError(sport, ErrCodeInvalidData, fmt.Sprintf("unexpected status: %d", resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewCollectorError(sport, ErrCodeInvalidData, "failed to decode response", err)
	}
	return nil
}

// scheduleEntry is the provider wire shape for one fixture.
type scheduleEntry struct {
	GameID   string `json:"game_id"`
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
	GameDate string `json:"game_date"`
	Season   string `json:"season"`
	Venue    string `json:"venue"`
}

// CollectSchedules retrieves the fixture list for a season
func (c *apiCollector) CollectSchedules(ctx context.Context, season string) ([]models.ScheduledGame, error) {
	var entries []scheduleEntry
	if err := c.getJSON(ctx, "/schedules?season="+season, &entries); err != nil {
		return nil, err
	}

	games := make([]models.ScheduledGame, 0, len(entries))
	for _, e := range entries {
		date, err := parseGameDate(e.GameDate)
		if err != nil {
			c.logger.WithFields(logrus.Fields{"sport": c.sport, "game_id": e.GameID}).
				Warn("Skipping fixture with unparseable date")
			continue
		}
		games = append(games, models.ScheduledGame{
			Sport:    c.sport,
			GameID:   e.GameID,
			HomeTeam: e.HomeTeam,
			AwayTeam: e.AwayTeam,
			GameDate: date,
			Season:   e.Season,
			Venue:    e.Venue,
		})
	}
	c.logger.WithFields(logrus.Fields{"sport": c.sport, "games": len(games)}).
		Info("Collected schedule")
	return games, nil
}

// injuryEntry is the provider wire shape for one injury report row.
type injuryEntry struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Team       string `json:"team"`
	Status     string `json:"status"`
	Detail     string `json:"detail"`
}

// CollectInjuries retrieves the current injury report
func (c *apiCollector) CollectInjuries(ctx context.Context) ([]models.InjuryReport, error) {
	var entries []injuryEntry
	if err := c.getJSON(ctx, "/injuries", &entries); err != nil {
		return nil, err
	}

	reports := make([]models.InjuryReport, 0, len(entries))
	now := time.Now().UTC()
	for _, e := range entries {
		reports = append(reports, models.InjuryReport{
			Sport:      c.sport,
			PlayerID:   e.PlayerID,
			PlayerName: e.PlayerName,
			Team:       e.Team,
			Status:     e.Status,
			Detail:     e.Detail,
			ReportedAt: now,
		})
	}
	return reports, nil
}

// propEntry is the provider wire shape for one sportsbook prop line.
type propEntry struct {
	PlayerName string  `json:"player_name"`
	Team       string  `json:"team"`
	StatType   string  `json:"stat_type"`
	Line       string  `json:"line"`
	OverPrice  *string `json:"over_price"`
	UnderPrice *string `json:"under_price"`
	Book       string  `json:"book"`
}

// CollectPropLines retrieves sportsbook over/under lines for a date
func (c *apiCollector) CollectPropLines(ctx context.Context, date time.Time) ([]models.PropLine, error) {
	var entries []propEntry
	if err := c.getJSON(ctx, "/props?date="+date.Format("2006-01-02"), &entries); err != nil {
		return nil, err
	}

	lines := make([]models.PropLine, 0, len(entries))
	now := time.Now().UTC()
	for _, e := range entries {
		line, err := decimal.NewFromString(e.Line)
		if err != nil {
			c.logger.WithFields(logrus.Fields{"sport": c.sport, "player": e.PlayerName, "line": e.Line}).
				Warn("Skipping prop with unparseable line")
			continue
		}
		prop := models.PropLine{
			Sport:      c.sport,
			PlayerName: e.PlayerName,
			Team:       e.Team,
			StatType:   e.StatType,
			Line:       line,
			Book:       e.Book,
			FetchedAt:  now,
		}
		if e.OverPrice != nil {
			if price, err := decimal.NewFromString(*e.OverPrice); err == nil {
				prop.OverPrice = &price
			}
		}
		if e.UnderPrice != nil {
			if price, err := decimal.NewFromString(*e.UnderPrice); err == nil {
				prop.UnderPrice = &price
			}
		}
		lines = append(lines, prop)
	}
	c.logger.WithFields(logrus.Fields{"sport": c.sport, "lines": len(lines)}).
		Info("Collected prop lines")
	return lines, nil
}

// addStat records a stat only when the provider reported it, keeping the
// stats map sparse.
func addStat(stats map[string]float64, name string, value *float64) {
	if value != nil {
		stats[name] = *value
	}
}

// parseGameDate accepts the date-only and RFC3339 formats providers use.
func parseGameDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// venueFor maps a provider home/away marker to the shared venue constant.
func venueFor(homeAway string) string {
	if homeAway == "HOME" || homeAway == "home" {
		return models.VenueHome
	}
	return models.VenueAway
}
