package models

import "time"

// Outcome is one realized result for a (player, stat, date) triple, as
// reported by the stats feed after games settle.
type Outcome struct {
	Sport       Sport     `db:"sport" json:"sport"`
	Player      string    `db:"player" json:"player" validate:"required"`
	Stat        string    `db:"stat" json:"stat" validate:"required"`
	GameDate    time.Time `db:"game_date" json:"date" validate:"required"`
	ActualValue float64   `db:"actual_value" json:"actual_value"`
}

// MatchedResult joins one prediction with its realized outcome. Produced by
// the monitoring matcher; unmatched predictions and outcomes never appear
// here.
type MatchedResult struct {
	Player          string
	Team            string
	Opponent        string
	GameDate        time.Time
	Stat            string
	PredictedValue  float64
	ActualValue     float64
	HasLine         bool
	Line            float64
	OverProbability float64
	ActualOver      int
	Confidence      ConfidenceCategory
	ConfidenceScore float64
}
