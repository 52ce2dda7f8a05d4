package collectors

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/masterkanin/sports-predictor/internal/config"
	"github.com/masterkanin/sports-predictor/internal/models"
)

// MLBCollector implements Collector for the MLB stats provider.
type MLBCollector struct {
	apiCollector
}

// NewMLBCollector creates a new MLB collector
func NewMLBCollector(cfg config.SportSourceConfig, httpClient *RateLimitedHTTPClient, logger *logrus.Logger) *MLBCollector {
	return &MLBCollector{apiCollector: newAPICollector(cfg, httpClient, logger)}
}

// mlbPlayerGame is the provider wire shape for one MLB player game line.
// Batting and pitching fields are both present; position players simply never
// report the pitching block.
type mlbPlayerGame struct {
	PlayerID          string   `json:"PlayerID"`
	Name              string   `json:"Name"`
	Team              string   `json:"Team"`
	Opponent          string   `json:"Opponent"`
	HomeOrAway        string   `json:"HomeOrAway"`
	GameDate          string   `json:"GameDate"`
	WinLoss           string   `json:"WinLoss"`
	AtBats            *float64 `json:"AtBats"`
	Runs              *float64 `json:"Runs"`
	Hits              *float64 `json:"Hits"`
	Doubles           *float64 `json:"Doubles"`
	Triples           *float64 `json:"Triples"`
	HomeRuns          *float64 `json:"HomeRuns"`
	RunsBattedIn      *float64 `json:"RunsBattedIn"`
	StolenBases       *float64 `json:"StolenBases"`
	Walks             *float64 `json:"Walks"`
	Strikeouts        *float64 `json:"Strikeouts"`
	InningsPitched    *float64 `json:"InningsPitched"`
	PitcherStrikeouts *float64 `json:"PitcherStrikeouts"`
	PitcherWalks      *float64 `json:"PitcherWalks"`
	HitsAllowed       *float64 `json:"HitsAllowed"`
	EarnedRuns        *float64 `json:"EarnedRuns"`
}

// CollectPlayerStats retrieves settled per-player game lines for a date
func (c *MLBCollector) CollectPlayerStats(ctx context.Context, date time.Time) ([]models.GameRecord, error) {
	var games []mlbPlayerGame
	if err := c.getJSON(ctx, "/player-stats?date="+date.Format("2006-01-02"), &games); err != nil {
		return nil, err
	}

	records := make([]models.GameRecord, 0, len(games))
	for _, g := range games {
		gameDate, err := parseGameDate(g.GameDate)
		if err != nil {
			continue
		}

		stats := make(map[string]float64)
		addStat(stats, "at_bats", g.AtBats)
		addStat(stats, "runs", g.Runs)
		addStat(stats, "hits", g.Hits)
		addStat(stats, "doubles", g.Doubles)
		addStat(stats, "triples", g.Triples)
		addStat(stats, "home_runs", g.HomeRuns)
		addStat(stats, "runs_batted_in", g.RunsBattedIn)
		addStat(stats, "stolen_bases", g.StolenBases)
		addStat(stats, "walks", g.Walks)
		addStat(stats, "strikeouts", g.Strikeouts)
		addStat(stats, "innings_pitched", g.InningsPitched)
		addStat(stats, "pitcher_strikeouts", g.PitcherStrikeouts)
		addStat(stats, "pitcher_walks", g.PitcherWalks)
		addStat(stats, "hits_allowed", g.HitsAllowed)
		addStat(stats, "earned_runs", g.EarnedRuns)

		statType := "hits"
		if g.InningsPitched != nil {
			statType = "pitcher_strikeouts"
		}

		records = append(records, models.GameRecord{
			EntityID:   g.PlayerID,
			EntityName: g.Name,
			Team:       g.Team,
			Opponent:   g.Opponent,
			GameDate:   gameDate,
			HomeAway:   venueFor(g.HomeOrAway),
			WinLoss:    g.WinLoss,
			StatType:   statType,
			Stats:      stats,
		})
	}

	c.logger.WithFields(logrus.Fields{"sport": c.sport, "players": len(records)}).
		Info("Collected player stats")
	return records, nil
}

// mlbTeamGame is the provider wire shape for one MLB team result.
type mlbTeamGame struct {
	TeamID      string   `json:"TeamID"`
	Team        string   `json:"Team"`
	Opponent    string   `json:"Opponent"`
	HomeOrAway  string   `json:"HomeOrAway"`
	GameDate    string   `json:"GameDate"`
	WinLoss     string   `json:"WinLoss"`
	Runs        *float64 `json:"Runs"`
	RunsAllowed *float64 `json:"RunsAllowed"`
	Hits        *float64 `json:"Hits"`
	AtBats      *float64 `json:"AtBats"`
	Errors      *float64 `json:"Errors"`
}

// CollectTeamStats retrieves settled per-team results for a date
func (c *MLBCollector) CollectTeamStats(ctx context.Context, date time.Time) ([]models.GameRecord, error) {
	var games []mlbTeamGame
	if err := c.getJSON(ctx, "/team-stats?date="+date.Format("2006-01-02"), &games); err != nil {
		return nil, err
	}

	records := make([]models.GameRecord, 0, len(games))
	for _, g := range games {
		gameDate, err := parseGameDate(g.GameDate)
		if err != nil {
			continue
		}

		stats := make(map[string]float64)
		addStat(stats, "runs", g.Runs)
		addStat(stats, "runs_allowed", g.RunsAllowed)
		addStat(stats, "hits", g.Hits)
		addStat(stats, "at_bats", g.AtBats)
		addStat(stats, "errors", g.Errors)

		records = append(records, models.GameRecord{
			EntityID: g.TeamID,
			Team:     g.Team,
			Opponent: g.Opponent,
			GameDate: gameDate,
			HomeAway: venueFor(g.HomeOrAway),
			WinLoss:  g.WinLoss,
			Stats:    stats,
		})
	}
	return records, nil
}
