// Package backtest replays the live decision logic over historical,
// already-finalized games. It synthesizes quarter-boundary contexts with
// the same context builder used live and drives them through the same
// strategy evaluator, which is the correctness anchor between live and
// historical evaluation.
package backtest

import (
	"time"
)

// Config bounds a backtest run.
type Config struct {
	// Workers caps how many games replay concurrently. A single game's
	// context sequence is always processed in chronological order.
	Workers int
	// MaxGames caps how many games from the corpus are analyzed;
	// zero means the whole corpus.
	MaxGames int
	// Budget is the wall-clock cutoff; on expiry the run returns
	// accumulated aggregates annotated as partial. Zero means no cutoff.
	Budget time.Duration
	// Stake is the flat stake per bet used for ROI accounting.
	Stake float64
	// OutputDir receives the JSON result artifact; empty disables it.
	OutputDir string
}

// DefaultConfig returns the default backtest configuration.
func DefaultConfig() *Config {
	return &Config{
		Workers: 4,
		Stake:   1.0,
	}
}

// StrategySummary aggregates one strategy's performance across the corpus.
type StrategySummary struct {
	StrategyID    string  `json:"strategy_id"`
	StrategyName  string  `json:"strategy_name"`
	GamesAnalyzed int     `json:"games_analyzed"`
	TriggersFound int     `json:"triggers_found"`
	PotentialBets int     `json:"potential_bets"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Pushes        int     `json:"pushes"`
	WinRate       float64 `json:"win_rate"`
	ROI           float64 `json:"roi"`
}

// Result is the outcome of one backtest run.
type Result struct {
	StartedAt      time.Time         `json:"started_at"`
	FinishedAt     time.Time         `json:"finished_at"`
	GamesTotal     int               `json:"games_total"`
	GamesProcessed int               `json:"games_processed"`
	GamesSkipped   int               `json:"games_skipped"`
	// Partial marks a run cut off by budget or cancellation; the
	// aggregates cover the work completed before the cutoff.
	Partial   bool              `json:"partial"`
	Summaries []StrategySummary `json:"summaries"`
}
