package domain

import "time"

// SpreadResult is the outcome of a game against its opening spread.
type SpreadResult string

const (
	SpreadHomeCovered SpreadResult = "home_covered"
	SpreadAwayCovered SpreadResult = "away_covered"
	SpreadPush        SpreadResult = "push"
)

// TotalResult is the outcome of a game against its opening total line.
type TotalResult string

const (
	TotalOver  TotalResult = "over"
	TotalUnder TotalResult = "under"
	TotalPush  TotalResult = "push"
)

// HistoricalGame is a finalized game record used by the backtest engine.
// Immutable once created.
type HistoricalGame struct {
	GameID       string          `json:"game_id" db:"game_id"`
	HomeTeam     string          `json:"home_team" db:"home_team"`
	AwayTeam     string          `json:"away_team" db:"away_team"`
	FinalHome    int             `json:"final_home" db:"final_home"`
	FinalAway    int             `json:"final_away" db:"final_away"`
	Quarters     [4]QuarterScore `json:"quarters"`
	OpeningLines Lines           `json:"opening_lines"`
	Winner       string          `json:"winner" db:"winner"`
	SpreadResult SpreadResult    `json:"spread_result" db:"spread_result"`
	TotalResult  TotalResult     `json:"total_result" db:"total_result"`
	PlayedAt     time.Time       `json:"played_at" db:"played_at"`
}

// Validate reports whether the record is internally consistent enough to
// replay. Malformed records are skipped by the backtest engine, not fatal.
func (h *HistoricalGame) Validate() error {
	if h.GameID == "" {
		return errEmpty("game_id")
	}
	if h.HomeTeam == "" || h.AwayTeam == "" {
		return errEmpty("team names")
	}
	if h.FinalHome < 0 || h.FinalAway < 0 {
		return errNegativeScore
	}
	sumHome, sumAway := 0, 0
	for _, q := range h.Quarters {
		if q.Home < 0 || q.Away < 0 {
			return errNegativeScore
		}
		sumHome += q.Home
		sumAway += q.Away
	}
	// Quarter sums may undercount finals when overtime points are folded
	// into the final score only, but can never exceed them.
	if sumHome > h.FinalHome || sumAway > h.FinalAway {
		return errQuarterMismatch
	}
	return nil
}
