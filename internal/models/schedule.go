package models

import "time"

// ScheduledGame is one upcoming fixture from a sport's schedule feed.
type ScheduledGame struct {
	Sport    Sport     `db:"sport" json:"sport"`
	GameID   string    `db:"game_id" json:"game_id"`
	HomeTeam string    `db:"home_team" json:"home_team"`
	AwayTeam string    `db:"away_team" json:"away_team"`
	GameDate time.Time `db:"game_date" json:"game_date"`
	Season   string    `db:"season" json:"season"`
	Venue    string    `db:"venue" json:"venue"`
}

// InjuryReport is one player's injury status ahead of a game. Players listed
// as out are excluded from the prediction slate.
type InjuryReport struct {
	Sport      Sport     `db:"sport" json:"sport"`
	PlayerID   string    `db:"player_id" json:"player_id"`
	PlayerName string    `db:"player_name" json:"player_name"`
	Team       string    `db:"team" json:"team"`
	Status     string    `db:"status" json:"status"`
	Detail     string    `db:"detail" json:"detail"`
	ReportedAt time.Time `db:"reported_at" json:"reported_at"`
}

// IsOut reports whether the player is ruled out.
func (r *InjuryReport) IsOut() bool {
	return r.Status == "Out" || r.Status == "Injured Reserve"
}
