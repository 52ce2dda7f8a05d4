package collectors

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/masterkanin/sports-predictor/internal/config"
	"github.com/masterkanin/sports-predictor/internal/models"
)

// SoccerCollector implements Collector for the soccer stats provider.
type SoccerCollector struct {
	apiCollector
}

// NewSoccerCollector creates a new soccer collector
func NewSoccerCollector(cfg config.SportSourceConfig, httpClient *RateLimitedHTTPClient, logger *logrus.Logger) *SoccerCollector {
	return &SoccerCollector{apiCollector: newAPICollector(cfg, httpClient, logger)}
}

// soccerPlayerGame is the provider wire shape for one soccer player match.
type soccerPlayerGame struct {
	PlayerID       string   `json:"PlayerID"`
	Name           string   `json:"Name"`
	Team           string   `json:"Team"`
	Opponent       string   `json:"Opponent"`
	HomeOrAway     string   `json:"HomeOrAway"`
	GameDate       string   `json:"GameDate"`
	WinLoss        string   `json:"WinLoss"`
	Goals          *float64 `json:"Goals"`
	Assists        *float64 `json:"Assists"`
	Shots          *float64 `json:"Shots"`
	ShotsOnTarget  *float64 `json:"ShotsOnTarget"`
	Passes         *float64 `json:"Passes"`
	KeyPasses      *float64 `json:"KeyPasses"`
	Dribbles       *float64 `json:"Dribbles"`
	Tackles        *float64 `json:"Tackles"`
	Interceptions  *float64 `json:"Interceptions"`
	FoulsCommitted *float64 `json:"FoulsCommitted"`
	YellowCards    *float64 `json:"YellowCards"`
	RedCards       *float64 `json:"RedCards"`
	MinutesPlayed  *float64 `json:"MinutesPlayed"`
}

// CollectPlayerStats retrieves settled per-player match lines for a date
func (c *SoccerCollector) CollectPlayerStats(ctx context.Context, date time.Time) ([]models.GameRecord, error) {
	var games []soccerPlayerGame
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
		addStat(stats, "shots", g.Shots)
		addStat(stats, "shots_on_target", g.ShotsOnTarget)
		addStat(stats, "passes", g.Passes)
		addStat(stats, "key_passes", g.KeyPasses)
		addStat(stats, "dribbles", g.Dribbles)
		addStat(stats, "tackles", g.Tackles)
		addStat(stats, "interceptions", g.Interceptions)
		addStat(stats, "fouls_committed", g.FoulsCommitted)
		addStat(stats, "yellow_cards", g.YellowCards)
		addStat(stats, "red_cards", g.RedCards)
		addStat(stats, "minutes_played", g.MinutesPlayed)

		records = append(records, models.GameRecord{
			EntityID:   g.PlayerID,
			EntityName: g.Name,
			Team:       g.Team,
			Opponent:   g.Opponent,
			GameDate:   gameDate,
			HomeAway:   venueFor(g.HomeOrAway),
			WinLoss:    g.WinLoss,
			StatType:   "goals",
			Stats:      stats,
		})
	}

	c.logger.WithFields(logrus.Fields{"sport": c.sport, "players": len(records)}).
		Info("Collected player stats")
	return records, nil
}

// soccerTeamGame is the provider wire shape for one soccer team result.
type soccerTeamGame struct {
	TeamID        string   `json:"TeamID"`
	Team          string   `json:"Team"`
	Opponent      string   `json:"Opponent"`
	HomeOrAway    string   `json:"HomeOrAway"`
	GameDate      string   `json:"GameDate"`
	WinLoss       string   `json:"WinLoss"`
	Goals         *float64 `json:"Goals"`
	GoalsConceded *float64 `json:"GoalsConceded"`
	Shots         *float64 `json:"Shots"`
	Possession    *float64 `json:"Possession"`
	Corners       *float64 `json:"Corners"`
}

// CollectTeamStats retrieves settled per-team results for a date
func (c *SoccerCollector) CollectTeamStats(ctx context.Context, date time.Time) ([]models.GameRecord, error) {
	var games []soccerTeamGame
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
		addStat(stats, "goals_conceded", g.GoalsConceded)
		addStat(stats, "shots", g.Shots)
		addStat(stats, "possession", g.Possession)
		addStat(stats, "corners", g.Corners)

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
