package domain

import (
	"fmt"
	"time"
)

// SignalStatus is the lifecycle state of a signal.
type SignalStatus string

const (
	SignalActive SignalStatus = "active"
	SignalWon    SignalStatus = "won"
	SignalLost   SignalStatus = "lost"
	SignalPushed SignalStatus = "pushed"
)

// Terminal reports whether the status is a resolved outcome.
func (s SignalStatus) Terminal() bool {
	return s == SignalWon || s == SignalLost || s == SignalPushed
}

// SignalKey identifies the at-most-one-active-signal slot for a
// (strategy, game) pair.
type SignalKey struct {
	StrategyID string `json:"strategy_id"`
	GameID     string `json:"game_id"`
}

func (k SignalKey) String() string {
	return fmt.Sprintf("%s/%s", k.StrategyID, k.GameID)
}

// Signal is an open or resolved bet recommendation for a (strategy, game)
// pair. At most one active signal exists per key at any time.
type Signal struct {
	ID         string       `json:"id" db:"id"`
	StrategyID string       `json:"strategy_id" db:"strategy_id"`
	GameID     string       `json:"game_id" db:"game_id"`
	Status     SignalStatus `json:"status" db:"status"`
	EntryValue float64      `json:"entry_value" db:"entry_value"`
	EntryTime  time.Time    `json:"entry_time" db:"entry_time"`
	CloseValue float64      `json:"close_value" db:"close_value"`
	CloseTime  time.Time    `json:"close_time" db:"close_time"`

	// LeadingTeamHome records which side was leading at entry; spread
	// scoring resolves the signal against that side's line.
	LeadingTeamHome bool `json:"leading_team_home" db:"leading_team_home"`
	// EntryOdds is the American price of the bet, taken from the entry
	// trigger's definition; 0 when no price was recorded (flat 1:1
	// staking applies).
	EntryOdds int `json:"entry_odds" db:"entry_odds"`
	// LastFiredOrder is the highest trigger order that has fired for
	// this signal; sequential trigger mode stages eligibility on it.
	LastFiredOrder int `json:"last_fired_order" db:"last_fired_order"`
}

// Key returns the registry key for the signal.
func (s *Signal) Key() SignalKey {
	return SignalKey{StrategyID: s.StrategyID, GameID: s.GameID}
}

