package domain

import (
	"time"
)

// GameStatus represents the lifecycle state of a live game.
type GameStatus string

const (
	StatusScheduled GameStatus = "scheduled"
	StatusLive      GameStatus = "live"
	StatusHalftime  GameStatus = "halftime"
	StatusFinal     GameStatus = "final"
)

// IsValid reports whether s is one of the known game statuses.
func (s GameStatus) IsValid() bool {
	switch s {
	case StatusScheduled, StatusLive, StatusHalftime, StatusFinal:
		return true
	}
	return false
}

// QuarterScore holds one quarter's points for both sides.
type QuarterScore struct {
	Home int `json:"home" db:"home"`
	Away int `json:"away" db:"away"`
}

// Total returns combined points scored in the quarter.
func (q QuarterScore) Total() int { return q.Home + q.Away }

// Differential returns home minus away points for the quarter.
func (q QuarterScore) Differential() int { return q.Home - q.Away }

// Lines holds the current betting lines for a game. Spread is quoted
// relative to the home team (negative means home is favored).
type Lines struct {
	Spread        float64 `json:"spread" yaml:"spread"`
	MoneylineHome int     `json:"moneyline_home" yaml:"moneyline_home"`
	MoneylineAway int     `json:"moneyline_away" yaml:"moneyline_away"`
	Total         float64 `json:"total" yaml:"total"`
}

// HalftimeSnapshot is captured exactly once, on the first transition past
// quarter 2 or into halftime status, and is immutable afterwards.
type HalftimeSnapshot struct {
	HomeScore  int       `json:"home_score"`
	AwayScore  int       `json:"away_score"`
	CapturedAt time.Time `json:"captured_at"`
}

// TeamStats carries pre-game player aggregates for one side. Fields are
// nil until the upstream player feed has delivered them.
type TeamStats struct {
	WinPct          *float64 `json:"win_pct,omitempty"`
	PointsPerMinute *float64 `json:"points_per_minute,omitempty"`
	ExperienceYears *float64 `json:"experience_years,omitempty"`
}

// GameSnapshot is the authoritative live-game record. It is owned by the
// game state reducer and mutated only through its merge operation.
type GameSnapshot struct {
	GameID        string            `json:"game_id"`
	HomeTeam      string            `json:"home_team"`
	AwayTeam      string            `json:"away_team"`
	HomeScore     int               `json:"home_score"`
	AwayScore     int               `json:"away_score"`
	Quarter       int               `json:"quarter"`
	TimeRemaining string            `json:"time_remaining"`
	Status        GameStatus        `json:"status"`
	Quarters      [4]QuarterScore   `json:"quarters"`
	Halftime      *HalftimeSnapshot `json:"halftime,omitempty"`
	// HalftimeMissed marks games first seen after the half. No halftime
	// snapshot is ever captured for them: the score at the half was
	// never observed and must not be reconstructed from a running total.
	HalftimeMissed bool `json:"halftime_missed,omitempty"`
	Lines         Lines             `json:"lines"`
	HomeStats     *TeamStats        `json:"home_stats,omitempty"`
	AwayStats     *TeamStats        `json:"away_stats,omitempty"`
	UpdatedAt     time.Time         `json:"updated_at"`

	// Version increments on every accepted merge; stores use it for
	// optimistic concurrency.
	Version int64 `json:"version"`
}

// Clone returns a deep copy so callers can hand snapshots across
// goroutines without aliasing reducer-owned state.
func (g *GameSnapshot) Clone() *GameSnapshot {
	if g == nil {
		return nil
	}
	cp := *g
	if g.Halftime != nil {
		ht := *g.Halftime
		cp.Halftime = &ht
	}
	cp.HomeStats = g.HomeStats.clone()
	cp.AwayStats = g.AwayStats.clone()
	return &cp
}

func (t *TeamStats) clone() *TeamStats {
	if t == nil {
		return nil
	}
	cp := TeamStats{}
	if t.WinPct != nil {
		v := *t.WinPct
		cp.WinPct = &v
	}
	if t.PointsPerMinute != nil {
		v := *t.PointsPerMinute
		cp.PointsPerMinute = &v
	}
	if t.ExperienceYears != nil {
		v := *t.ExperienceYears
		cp.ExperienceYears = &v
	}
	return &cp
}

// GameDelta is one inbound game-state update. Pointer fields distinguish
// "absent from this delta" from zero values.
type GameDelta struct {
	GameID        string      `json:"game_id"`
	HomeTeam      string      `json:"home_team,omitempty"`
	AwayTeam      string      `json:"away_team,omitempty"`
	HomeScore     *int        `json:"home_score,omitempty"`
	AwayScore     *int        `json:"away_score,omitempty"`
	Quarter       *int        `json:"quarter,omitempty"`
	TimeRemaining *string     `json:"time_remaining,omitempty"`
	Status        *GameStatus `json:"status,omitempty"`
	Spread        *float64    `json:"spread,omitempty"`
	MoneylineHome *int        `json:"moneyline_home,omitempty"`
	MoneylineAway *int        `json:"moneyline_away,omitempty"`
	Total         *float64    `json:"total,omitempty"`
	HomeStats     *TeamStats  `json:"home_stats,omitempty"`
	AwayStats     *TeamStats  `json:"away_stats,omitempty"`
	ReceivedAt    time.Time   `json:"received_at,omitempty"`
}

// CorrectionNote records a monotonicity violation that the reducer
// auto-corrected. Not fatal; surfaced for observability.
type CorrectionNote struct {
	ID        string    `json:"id"`
	GameID    string    `json:"game_id"`
	Field     string    `json:"field"`
	Inbound   string    `json:"inbound"`
	Retained  string    `json:"retained"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}
