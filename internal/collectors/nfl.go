package collectors

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/masterkanin/sports-predictor/internal/config"
	"github.com/masterkanin/sports-predictor/internal/models"
)

// NFLCollector implements Collector for the NFL stats provider.
type NFLCollector struct {
	apiCollector
}

// NewNFLCollector creates a new NFL collector
func NewNFLCollector(cfg config.SportSourceConfig, httpClient *RateLimitedHTTPClient, logger *logrus.Logger) *NFLCollector {
	return &NFLCollector{apiCollector: newAPICollector(cfg, httpClient, logger)}
}

// nflPlayerGame is the provider wire shape for one NFL player game line.
type nflPlayerGame struct {
	PlayerID             string   `json:"PlayerID"`
	Name                 string   `json:"Name"`
	Team                 string   `json:"Team"`
	Position             string   `json:"Position"`
	Opponent             string   `json:"Opponent"`
	HomeOrAway           string   `json:"HomeOrAway"`
	GameDate             string   `json:"GameDate"`
	WinLoss              string   `json:"WinLoss"`
	PassingAttempts      *float64 `json:"PassingAttempts"`
	PassingCompletions   *float64 `json:"PassingCompletions"`
	PassingYards         *float64 `json:"PassingYards"`
	PassingTouchdowns    *float64 `json:"PassingTouchdowns"`
	PassingInterceptions *float64 `json:"PassingInterceptions"`
	RushingAttempts      *float64 `json:"RushingAttempts"`
	RushingYards         *float64 `json:"RushingYards"`
	RushingTouchdowns    *float64 `json:"RushingTouchdowns"`
	Receptions           *float64 `json:"Receptions"`
	ReceivingYards       *float64 `json:"ReceivingYards"`
	ReceivingTouchdowns  *float64 `json:"ReceivingTouchdowns"`
	Targets              *float64 `json:"Targets"`
	Tackles              *float64 `json:"Tackles"`
	Sacks                *float64 `json:"Sacks"`
}

// CollectPlayerStats retrieves settled per-player game lines for a date
func (c *NFLCollector) CollectPlayerStats(ctx context.Context, date time.Time) ([]models.GameRecord, error) {
	var games []nflPlayerGame
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
		addStat(stats, "passing_attempts", g.PassingAttempts)
		addStat(stats, "passing_completions", g.PassingCompletions)
		addStat(stats, "passing_yards", g.PassingYards)
		addStat(stats, "passing_touchdowns", g.PassingTouchdowns)
		addStat(stats, "passing_interceptions", g.PassingInterceptions)
		addStat(stats, "rushing_attempts", g.RushingAttempts)
		addStat(stats, "rushing_yards", g.RushingYards)
		addStat(stats, "rushing_touchdowns", g.RushingTouchdowns)
		addStat(stats, "receptions", g.Receptions)
		addStat(stats, "receiving_yards", g.ReceivingYards)
		addStat(stats, "receiving_touchdowns", g.ReceivingTouchdowns)
		addStat(stats, "targets", g.Targets)
		addStat(stats, "tackles", g.Tackles)
		addStat(stats, "sacks", g.Sacks)

		records = append(records, models.GameRecord{
			EntityID:   g.PlayerID,
			EntityName: g.Name,
			Team:       g.Team,
			Opponent:   g.Opponent,
			GameDate:   gameDate,
			HomeAway:   venueFor(g.HomeOrAway),
			WinLoss:    g.WinLoss,
			StatType:   statTypeForPosition(g.Position),
			Stats:      stats,
		})
	}

	c.logger.WithFields(logrus.Fields{"sport": c.sport, "players": len(records)}).
		Info("Collected player stats")
	return records, nil
}

// statTypeForPosition picks the headline prop stat for a position group.
func statTypeForPosition(position string) string {
	switch position {
	case "QB":
		return "passing_yards"
	case "RB":
		return "rushing_yards"
	case "WR", "TE":
		return "receiving_yards"
	default:
		return "tackles"
	}
}

// nflTeamGame is the provider wire shape for one NFL team result.
type nflTeamGame struct {
	TeamID        string   `json:"TeamID"`
	Team          string   `json:"Team"`
	Opponent      string   `json:"Opponent"`
	HomeOrAway    string   `json:"HomeOrAway"`
	GameDate      string   `json:"GameDate"`
	WinLoss       string   `json:"WinLoss"`
	PointsScored  *float64 `json:"PointsScored"`
	PointsAllowed *float64 `json:"PointsAllowed"`
	TotalYards    *float64 `json:"TotalYards"`
	YardsAllowed  *float64 `json:"YardsAllowed"`
	Turnovers     *float64 `json:"Turnovers"`
}

// CollectTeamStats retrieves settled per-team results for a date
func (c *NFLCollector) CollectTeamStats(ctx context.Context, date time.Time) ([]models.GameRecord, error) {
	var games []nflTeamGame
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
		addStat(stats, "points_scored", g.PointsScored)
		addStat(stats, "points_allowed", g.PointsAllowed)
		addStat(stats, "total_yards", g.TotalYards)
		addStat(stats, "yards_allowed", g.YardsAllowed)
		addStat(stats, "turnovers", g.Turnovers)

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
