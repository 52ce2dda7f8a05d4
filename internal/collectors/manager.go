package collectors

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/masterkanin/sports-predictor/internal/models"
)

// SportBundle is everything collected for one sport on one date.
type SportBundle struct {
	PlayerStats []models.GameRecord
	TeamStats   []models.GameRecord
	Injuries    []models.InjuryReport
	PropLines   []models.PropLine
}

// Manager fans collection out across every registered collector. A failing
// sport is logged and skipped; the rest of the batch proceeds.
type Manager struct {
	collectors []Collector
	logger     *logrus.Logger
}

// NewManager creates a collection manager
func NewManager(collectors []Collector, logger *logrus.Logger) *Manager {
	return &Manager{collectors: collectors, logger: logger}
}

// CollectAll runs a full collection pass for a date across every enabled
// sport.
func (m *Manager) CollectAll(ctx context.Context, date time.Time) map[models.Sport]SportBundle {
	results := make(map[models.Sport]SportBundle, len(m.collectors))
	for _, c := range m.collectors {
		if !c.IsEnabled() {
			continue
		}
		bundle, err := m.collectSport(ctx, c, date)
		if err != nil {
			m.logger.WithError(err).WithField("sport", c.Sport()).
				Error("Collection failed for sport")
			continue
		}
		results[c.Sport()] = bundle
	}
	return results
}

// collectSport gathers player stats, team stats, injuries and prop lines for
// one sport. Player stats are mandatory; the other feeds degrade to empty
// with a warning.
func (m *Manager) collectSport(ctx context.Context, c Collector, date time.Time) (SportBundle, error) {
	var bundle SportBundle

	players, err := c.CollectPlayerStats(ctx, date)
	if err != nil {
		return bundle, err
	}
	bundle.PlayerStats = players

	if teams, err := c.CollectTeamStats(ctx, date); err != nil {
		m.logger.WithError(err).WithField("sport", c.Sport()).Warn("Team stats unavailable")
	} else {
		bundle.TeamStats = teams
	}

	if injuries, err := c.CollectInjuries(ctx); err != nil {
		m.logger.WithError(err).WithField("sport", c.Sport()).Warn("Injury report unavailable")
	} else {
		bundle.Injuries = injuries
	}

	if lines, err := c.CollectPropLines(ctx, date); err != nil {
		m.logger.WithError(err).WithField("sport", c.Sport()).Warn("Prop lines unavailable")
	} else {
		bundle.PropLines = lines
	}

	return bundle, nil
}

// ActivePlayers filters game records down to players not ruled out by the
// injury report.
func ActivePlayers(records []models.GameRecord, injuries []models.InjuryReport) []models.GameRecord {
	out := make(map[string]bool)
	for i := range injuries {
		if injuries[i].IsOut() {
			out[injuries[i].PlayerID] = true
		}
	}
	if len(out) == 0 {
		return records
	}

	active := make([]models.GameRecord, 0, len(records))
	for _, r := range records {
		if !out[r.EntityID] {
			active = append(active, r)
		}
	}
	return active
}
