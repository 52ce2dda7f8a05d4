package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PropLine is one sportsbook over/under line for a player stat, as collected
// from an odds provider. Lines and prices are decimals so half-point lines
// survive round-tripping through providers exactly.
type PropLine struct {
	Sport      Sport           `db:"sport" json:"sport"`
	PlayerName string          `db:"player_name" json:"player_name" validate:"required"`
	Team       string          `db:"team" json:"team"`
	StatType   string          `db:"stat_type" json:"stat_type" validate:"required"`
	Line       decimal.Decimal `db:"line" json:"line"`
	OverPrice  *decimal.Decimal `db:"over_price" json:"over_price"`
	UnderPrice *decimal.Decimal `db:"under_price" json:"under_price"`
	Book       string          `db:"book" json:"book"`
	FetchedAt  time.Time       `db:"fetched_at" json:"fetched_at"`
}

// LineValue returns the line as a float for model consumption.
func (p *PropLine) LineValue() float64 {
	f, _ := p.Line.Float64()
	return f
}
