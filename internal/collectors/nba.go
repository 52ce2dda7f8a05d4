package collectors

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/masterkanin/sports-predictor/internal/config"
	"github.com/masterkanin/sports-predictor/internal/models"
)

// NBACollector implements Collector for the NBA stats provider.
type NBACollector struct {
	apiCollector
}

// NewNBACollector creates a new NBA collector
func NewNBACollector(cfg config.SportSourceConfig, httpClient *RateLimitedHTTPClient, logger *logrus.Logger) *NBACollector {
	return &NBACollector{apiCollector: newAPICollector(cfg, httpClient, logger)}
}

// nbaPlayerGame is the provider wire shape for one NBA player box score.
type nbaPlayerGame struct {
	PlayerID           string   `json:"PlayerID"`
	Name               string   `json:"Name"`
	Team               string   `json:"Team"`
	Opponent           string   `json:"Opponent"`
	HomeOrAway         string   `json:"HomeOrAway"`
	GameDate           string   `json:"GameDate"`
	WinLoss            string   `json:"WinLoss"`
	Points             *float64 `json:"Points"`
	Rebounds           *float64 `json:"Rebounds"`
	Assists            *float64 `json:"Assists"`
	Steals             *float64 `json:"Steals"`
	Blocks             *float64 `json:"Blocks"`
	Turnovers          *float64 `json:"Turnovers"`
	ThreePointersMade  *float64 `json:"ThreePointersMade"`
	FieldGoalsMade     *float64 `json:"FieldGoalsMade"`
	FieldGoalsAttempts *float64 `json:"FieldGoalsAttempted"`
	FreeThrowsMade     *float64 `json:"FreeThrowsMade"`
	Minutes            *float64 `json:"Minutes"`
}

// CollectPlayerStats retrieves settled per-player box scores for a date
func (c *NBACollector) CollectPlayerStats(ctx context.Context, date time.Time) ([]models.GameRecord, error) {
	var games []nbaPlayerGame
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
		addStat(stats, "points", g.Points)
		addStat(stats, "rebounds", g.Rebounds)
		addStat(stats, "assists", g.Assists)
		addStat(stats, "steals", g.Steals)
		addStat(stats, "blocks", g.Blocks)
		addStat(stats, "turnovers", g.Turnovers)
		addStat(stats, "three_pointers_made", g.ThreePointersMade)
		addStat(stats, "field_goals_made", g.FieldGoalsMade)
		addStat(stats, "field_goals_attempted", g.FieldGoalsAttempts)
		addStat(stats, "free_throws_made", g.FreeThrowsMade)
		addStat(stats, "minutes", g.Minutes)
		if g.Points != nil && g.Rebounds != nil && g.Assists != nil {
			stats["pra"] = *g.Points + *g.Rebounds + *g.Assists
		}

		records = append(records, models.GameRecord{
			EntityID:   g.PlayerID,
			EntityName: g.Name,
			Team:       g.Team,
			Opponent:   g.Opponent,
			GameDate:   gameDate,
			HomeAway:   venueFor(g.HomeOrAway),
			WinLoss:    g.WinLoss,
			StatType:   "points",
			Stats:      stats,
		})
	}

	c.logger.WithFields(logrus.Fields{"sport": c.sport, "players": len(records)}).
		Info("Collected player stats")
	return records, nil
}

// nbaTeamGame is the provider wire shape for one NBA team result.
type nbaTeamGame struct {
	TeamID        string   `json:"TeamID"`
	Team          string   `json:"Team"`
	Opponent      string   `json:"Opponent"`
	HomeOrAway    string   `json:"HomeOrAway"`
	GameDate      string   `json:"GameDate"`
	WinLoss       string   `json:"WinLoss"`
	Points        *float64 `json:"Points"`
	PointsAllowed *float64 `json:"PointsAllowed"`
	Rebounds      *float64 `json:"Rebounds"`
	Assists       *float64 `json:"Assists"`
	Possessions   *float64 `json:"Possessions"`
}

// CollectTeamStats retrieves settled per-team results for a date
func (c *NBACollector) CollectTeamStats(ctx context.Context, date time.Time) ([]models.GameRecord, error) {
	var games []nbaTeamGame
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
		addStat(stats, "points", g.Points)
		addStat(stats, "points_allowed", g.PointsAllowed)
		addStat(stats, "rebounds", g.Rebounds)
		addStat(stats, "assists", g.Assists)
		addStat(stats, "possessions", g.Possessions)
		if g.Points != nil && g.Possessions != nil && *g.Possessions > 0 {
			stats["offensive_rating"] = *g.Points * 100 / *g.Possessions
		}

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
