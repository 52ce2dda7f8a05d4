package collectors

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/masterkanin/sports-predictor/internal/config"
	"github.com/masterkanin/sports-predictor/internal/models"
)

// NHLCollector implements Collector for the NHL stats provider.
type NHLCollector struct {
	apiCollector
}

// NewNHLCollector creates a new NHL collector
func NewNHLCollector(cfg config.SportSourceConfig, httpClient *RateLimitedHTTPClient, logger *logrus.Logger) *NHLCollector {
	return &NHLCollector{apiCollector: newAPICollector(cfg, httpClient, logger)}
}

// nhlPlayerGame is the provider wire shape for one NHL skater or goalie game.
type nhlPlayerGame struct {
	PlayerID       string   `json:"PlayerID"`
	Name           string   `json:"Name"`
	Team           string   `json:"Team"`
	Opponent       string   `json:"Opponent"`
	HomeOrAway     string   `json:"HomeOrAway"`
	GameDate       string   `json:"GameDate"`
	WinLoss        string   `json:"WinLoss"`
	Goals          *float64 `json:"Goals"`
	Assists        *float64 `json:"Assists"`
	Points         *float64 `json:"Points"`
	Shots          *float64 `json:"Shots"`
	BlockedShots   *float64 `json:"BlockedShots"`
	Hits           *float64 `json:"Hits"`
	PowerPlayGoals *float64 `json:"PowerPlayGoals"`
	PenaltyMinutes *float64 `json:"PenaltyMinutes"`
	FaceoffsWon    *float64 `json:"FaceoffsWon"`
	TimeOnIce      *float64 `json:"TimeOnIce"`
	PlusMinus      *float64 `json:"PlusMinus"`
	Saves          *float64 `json:"Saves"`
	GoalsAgainst   *float64 `json:"GoalsAgainst"`
}

// CollectPlayerStats retrieves settled per-player game lines for a date
func (c *NHLCollector) CollectPlayerStats(ctx context.Context, date time.Time) ([]models.GameRecord, error) {
	var games []nhlPlayerGame
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
		addStat(stats, "goals", g.Goals)
		addStat(stats, "assists", g.Assists)
		addStat(stats, "points", g.Points)
		addStat(stats, "shots", g.Shots)
		addStat(stats, "blocked_shots", g.BlockedShots)
		addStat(stats, "hits", g.Hits)
		addStat(stats, "power_play_goals", g.PowerPlayGoals)
		addStat(stats, "penalty_minutes", g.PenaltyMinutes)
		addStat(stats, "face_offs_won", g.FaceoffsWon)
		addStat(stats, "time_on_ice", g.TimeOnIce)
		addStat(stats, "plus_minus", g.PlusMinus)
		addStat(stats, "saves", g.Saves)
		addStat(stats, "goals_against", g.GoalsAgainst)

		statType := "points"
		if g.Saves != nil {
			statType = "saves"
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

// nhlTeamGame is the provider wire shape for one NHL team result.
type nhlTeamGame struct {
	TeamID       string   `json:"TeamID"`
	Team         string   `json:"Team"`
	Opponent     string   `json:"Opponent"`
	HomeOrAway   string   `json:"HomeOrAway"`
	GameDate     string   `json:"GameDate"`
	WinLoss      string   `json:"WinLoss"`
	Goals        *float64 `json:"Goals"`
	GoalsAgainst *float64 `json:"GoalsAgainst"`
	Shots        *float64 `json:"Shots"`
	ShotsAgainst *float64 `json:"ShotsAgainst"`
	PowerPlays   *float64 `json:"PowerPlays"`
}

// CollectTeamStats retrieves settled per-team results for a date
func (c *NHLCollector) CollectTeamStats(ctx context.Context, date time.Time) ([]models.GameRecord, error) {
	var games []nhlTeamGame
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
		addStat(stats, "goals", g.Goals)
		addStat(stats, "goals_against", g.GoalsAgainst)
		addStat(stats, "shots", g.Shots)
		addStat(stats, "shots_against", g.ShotsAgainst)
		addStat(stats, "power_plays", g.PowerPlays)

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
