// Package pipeline derives the flat evaluation context from a game
// snapshot. The build is a pure transform: identical snapshots always
// yield identical contexts, which is what keeps live evaluation and
// backtest replay semantically interchangeable.
package pipeline

import (
	"strconv"
	"strings"

	"github.com/sawpanic/courtside/internal/domain"
)

// Context is the flat, immutable record evaluated by conditions. It is
// recomputed on every evaluation and never persisted.
type Context struct {
	// Game clock
	Quarter              float64
	TimeRemainingSeconds float64
	GameStatus           string

	// Score
	HomeScore            float64
	AwayScore            float64
	TotalScore           float64
	ScoreDifferential    float64
	AbsScoreDifferential float64
	CurrentLead          float64
	HomeLeading          bool
	AwayLeading          bool
	Tied                 bool

	// Teams
	HomeTeam    string
	AwayTeam    string
	LeadingTeam string
	LosingTeam  string

	// Per-quarter aggregates
	Q1Home, Q1Away, Q1Total, Q1Differential float64
	Q2Home, Q2Away, Q2Total, Q2Differential float64
	Q3Home, Q3Away, Q3Total, Q3Differential float64
	Q4Home, Q4Away, Q4Total, Q4Differential float64

	// Halftime aggregates (zero until the halftime snapshot is captured)
	HalftimeHome         float64
	HalftimeAway         float64
	HalftimeTotal        float64
	HalftimeDifferential float64
	HalftimeLead         float64

	// Half totals
	FirstHalfTotal  float64
	SecondHalfTotal float64

	// Lines
	Spread               float64
	TotalLine            float64
	MoneylineHome        float64
	MoneylineAway        float64
	LeadingTeamSpread    float64
	LosingTeamSpread     float64
	LeadingTeamMoneyline float64
	LosingTeamMoneyline  float64

	// Player comparisons; nil whenever either side's underlying stat is
	// missing, never computed from partial data.
	WinPctDiff     *float64
	PpmDiff        *float64
	ExperienceDiff *float64
}

// Build derives the evaluation context from a game snapshot.
func Build(g *domain.GameSnapshot) *Context {
	diff := g.HomeScore - g.AwayScore
	absDiff := diff
	if absDiff < 0 {
		absDiff = -absDiff
	}

	ctx := &Context{
		Quarter:              float64(g.Quarter),
		TimeRemainingSeconds: float64(ParseClock(g.TimeRemaining)),
		GameStatus:           string(g.Status),
		HomeScore:            float64(g.HomeScore),
		AwayScore:            float64(g.AwayScore),
		TotalScore:           float64(g.HomeScore + g.AwayScore),
		ScoreDifferential:    float64(diff),
		AbsScoreDifferential: float64(absDiff),
		CurrentLead:          float64(absDiff),
		HomeLeading:          diff > 0,
		AwayLeading:          diff < 0,
		Tied:                 diff == 0,
		HomeTeam:             g.HomeTeam,
		AwayTeam:             g.AwayTeam,
		Spread:               g.Lines.Spread,
		TotalLine:            g.Lines.Total,
		MoneylineHome:        float64(g.Lines.MoneylineHome),
		MoneylineAway:        float64(g.Lines.MoneylineAway),
	}

	ctx.Q1Home = float64(g.Quarters[0].Home)
	ctx.Q1Away = float64(g.Quarters[0].Away)
	ctx.Q1Total = float64(g.Quarters[0].Total())
	ctx.Q1Differential = float64(g.Quarters[0].Differential())
	ctx.Q2Home = float64(g.Quarters[1].Home)
	ctx.Q2Away = float64(g.Quarters[1].Away)
	ctx.Q2Total = float64(g.Quarters[1].Total())
	ctx.Q2Differential = float64(g.Quarters[1].Differential())
	ctx.Q3Home = float64(g.Quarters[2].Home)
	ctx.Q3Away = float64(g.Quarters[2].Away)
	ctx.Q3Total = float64(g.Quarters[2].Total())
	ctx.Q3Differential = float64(g.Quarters[2].Differential())
	ctx.Q4Home = float64(g.Quarters[3].Home)
	ctx.Q4Away = float64(g.Quarters[3].Away)
	ctx.Q4Total = float64(g.Quarters[3].Total())
	ctx.Q4Differential = float64(g.Quarters[3].Differential())

	ctx.FirstHalfTotal = ctx.Q1Total + ctx.Q2Total
	ctx.SecondHalfTotal = ctx.Q3Total + ctx.Q4Total

	if g.Halftime != nil {
		htDiff := g.Halftime.HomeScore - g.Halftime.AwayScore
		htLead := htDiff
		if htLead < 0 {
			htLead = -htLead
		}
		ctx.HalftimeHome = float64(g.Halftime.HomeScore)
		ctx.HalftimeAway = float64(g.Halftime.AwayScore)
		ctx.HalftimeTotal = float64(g.Halftime.HomeScore + g.Halftime.AwayScore)
		ctx.HalftimeDifferential = float64(htDiff)
		ctx.HalftimeLead = float64(htLead)
	}

	// Leading/losing side lines. Ties default to home, so a tied game
	// reads the home side as "leading".
	homeIsLeading := diff >= 0
	if homeIsLeading {
		ctx.LeadingTeam = g.HomeTeam
		ctx.LosingTeam = g.AwayTeam
		ctx.LeadingTeamSpread = g.Lines.Spread
		ctx.LosingTeamSpread = -g.Lines.Spread
		ctx.LeadingTeamMoneyline = float64(g.Lines.MoneylineHome)
		ctx.LosingTeamMoneyline = float64(g.Lines.MoneylineAway)
	} else {
		ctx.LeadingTeam = g.AwayTeam
		ctx.LosingTeam = g.HomeTeam
		ctx.LeadingTeamSpread = -g.Lines.Spread
		ctx.LosingTeamSpread = g.Lines.Spread
		ctx.LeadingTeamMoneyline = float64(g.Lines.MoneylineAway)
		ctx.LosingTeamMoneyline = float64(g.Lines.MoneylineHome)
	}

	ctx.WinPctDiff = statDiff(g.HomeStats, g.AwayStats, func(t *domain.TeamStats) *float64 { return t.WinPct })
	ctx.PpmDiff = statDiff(g.HomeStats, g.AwayStats, func(t *domain.TeamStats) *float64 { return t.PointsPerMinute })
	ctx.ExperienceDiff = statDiff(g.HomeStats, g.AwayStats, func(t *domain.TeamStats) *float64 { return t.ExperienceYears })

	return ctx
}

// statDiff returns home minus away for one stat, or nil when either side
// is missing the underlying value.
func statDiff(home, away *domain.TeamStats, get func(*domain.TeamStats) *float64) *float64 {
	if home == nil || away == nil {
		return nil
	}
	h, a := get(home), get(away)
	if h == nil || a == nil {
		return nil
	}
	d := *h - *a
	return &d
}

// ParseClock converts an "M:SS" time-remaining string to seconds.
// Malformed input yields 0, never an error.
func ParseClock(clock string) int {
	parts := strings.SplitN(strings.TrimSpace(clock), ":", 2)
	if len(parts) != 2 {
		return 0
	}
	mins, err := strconv.Atoi(parts[0])
	if err != nil || mins < 0 {
		return 0
	}
	secs, err := strconv.Atoi(parts[1])
	if err != nil || secs < 0 || secs > 59 {
		return 0
	}
	return mins*60 + secs
}
