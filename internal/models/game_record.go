package models

import (
	"time"
)

// Sport identifies one of the supported leagues.
type Sport string

const (
	SportNBA    Sport = "nba"
	SportNFL    Sport = "nfl"
	SportMLB    Sport = "mlb"
	SportNHL    Sport = "nhl"
	SportSoccer Sport = "soccer"
)

// Sports lists every supported sport in collection order.
var Sports = []Sport{SportNBA, SportNFL, SportMLB, SportNHL, SportSoccer}

// HomeAway indicates the venue side for a game record.
const (
	VenueHome = "home"
	VenueAway = "away"
)

// GameRecord is one player-or-team performance in one game. Stats are sparse:
// a stat the provider did not report is absent from the map, not zero.
// Records are immutable once collected and are processed ordered by
// (entity, game date).
type GameRecord struct {
	EntityID   string             `db:"entity_id" json:"entity_id" validate:"required"`
	EntityName string             `db:"entity_name" json:"entity_name"`
	Team       string             `db:"team" json:"team"`
	Opponent   string             `db:"opponent" json:"opponent" validate:"required"`
	GameDate   time.Time          `db:"game_date" json:"game_date" validate:"required"`
	HomeAway   string             `db:"home_away" json:"home_away" validate:"oneof=home away"`
	WinLoss    string             `db:"win_loss" json:"win_loss"`
	StatType   string             `db:"stat_type" json:"stat_type"`
	Stats      map[string]float64 `db:"stats" json:"stats"`
}

// IsHome reports whether the entity played at home.
func (g *GameRecord) IsHome() bool {
	return g.HomeAway == VenueHome
}

// Stat returns the named stat and whether it was reported.
func (g *GameRecord) Stat(name string) (float64, bool) {
	v, ok := g.Stats[name]
	return v, ok
}

// Won reports whether the win/loss field records a win. Providers disagree on
// casing, so any of W/WIN/Win counts.
func (g *GameRecord) Won() bool {
	switch g.WinLoss {
	case "W", "WIN", "Win":
		return true
	}
	return false
}

// FeatureRow is one engineered record per (entity, game date): the raw stats
// plus derived columns. Every derived column at row t is computable from rows
// strictly before t for that entity; cells with no historical antecedent are
// filled with 0.
type FeatureRow struct {
	EntityID   string
	EntityName string
	Team       string
	Opponent   string
	GameDate   time.Time
	StatType   string
	Features   map[string]float64
}

// Feature returns the named feature column, or 0 when absent.
func (f *FeatureRow) Feature(name string) float64 {
	return f.Features[name]
}
