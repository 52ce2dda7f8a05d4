package normalize

import "github.com/masterkanin/sports-predictor/internal/models"

// Category is one of the fixed semantic buckets shared by all sports.
type Category string

const (
	CategoryScoring        Category = "scoring"
	CategoryAssists        Category = "assists"
	CategoryRebounds       Category = "rebounds"
	CategoryDefensivePlays Category = "defensive_plays"
	CategoryEfficiency     Category = "efficiency"
	CategoryPlayingTime    Category = "playing_time"
	CategoryTurnovers      Category = "turnovers"
	CategoryFouls          Category = "fouls"
)

// Categories lists every category in stable output order.
var Categories = []Category{
	CategoryScoring,
	CategoryAssists,
	CategoryRebounds,
	CategoryDefensivePlays,
	CategoryEfficiency,
	CategoryPlayingTime,
	CategoryTurnovers,
	CategoryFouls,
}

// buildStatMappings returns the static per-sport stat name to category
// tables. These are fixed configuration data, never learned; a stat name maps
// to at most one category.
func buildStatMappings() map[models.Sport]map[string]Category {
	return map[models.Sport]map[string]Category{
		models.SportNBA: {
			"points":                CategoryScoring,
			"rebounds":              CategoryRebounds,
			"assists":               CategoryAssists,
			"steals":                CategoryDefensivePlays,
			"blocks":                CategoryDefensivePlays,
			"three_pointers_made":   CategoryScoring,
			"field_goal_percentage": CategoryEfficiency,
			"minutes":               CategoryPlayingTime,
			"turnovers":             CategoryTurnovers,
			"personal_fouls":        CategoryFouls,
		},
		models.SportNFL: {
			"passing_yards":        CategoryScoring,
			"passing_touchdowns":   CategoryScoring,
			"rushing_yards":        CategoryScoring,
			"rushing_touchdowns":   CategoryScoring,
			"receiving_yards":      CategoryScoring,
			"receptions":           CategoryRebounds,
			"receiving_touchdowns": CategoryScoring,
			"tackles":              CategoryDefensivePlays,
			"sacks":                CategoryDefensivePlays,
			"interceptions":        CategoryDefensivePlays,
			"passing_completions":  CategoryEfficiency,
			"passing_attempts":     CategoryEfficiency,
			"rushing_attempts":     CategoryEfficiency,
			"targets":              CategoryEfficiency,
			"fumbles":              CategoryTurnovers,
		},
		models.SportMLB: {
			"runs":               CategoryScoring,
			"hits":               CategoryScoring,
			"home_runs":          CategoryScoring,
			"runs_batted_in":     CategoryAssists,
			"stolen_bases":       CategoryDefensivePlays,
			"batting_average":    CategoryEfficiency,
			"at_bats":            CategoryPlayingTime,
			"innings_pitched":    CategoryPlayingTime,
			"pitcher_strikeouts": CategoryDefensivePlays,
			"earned_run_average": CategoryEfficiency,
			"walks":              CategoryTurnovers,
			"strikeouts":         CategoryTurnovers,
		},
		models.SportNHL: {
			"goals":           CategoryScoring,
			"assists":         CategoryAssists,
			"points":          CategoryScoring,
			"shots":           CategoryEfficiency,
			"blocked_shots":   CategoryDefensivePlays,
			"hits":            CategoryDefensivePlays,
			"time_on_ice":     CategoryPlayingTime,
			"penalty_minutes": CategoryFouls,
			"face_offs_won":   CategoryEfficiency,
			"plus_minus":      CategoryEfficiency,
		},
		models.SportSoccer: {
			"goals":           CategoryScoring,
			"assists":         CategoryAssists,
			"shots":           CategoryEfficiency,
			"shots_on_target": CategoryEfficiency,
			"passes":          CategoryAssists,
			"key_passes":      CategoryAssists,
			"tackles":         CategoryDefensivePlays,
			"interceptions":   CategoryDefensivePlays,
			"minutes_played":  CategoryPlayingTime,
			"fouls_committed": CategoryFouls,
			"yellow_cards":    CategoryFouls,
			"red_cards":       CategoryFouls,
		},
	}
}
