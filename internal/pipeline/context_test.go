package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/courtside/internal/domain"
)

func fptr(v float64) *float64 { return &v }

func TestBuild_ScoreDerivations(t *testing.T) {
	snap := &domain.GameSnapshot{
		GameID:        "game-1",
		HomeTeam:      "Lakers",
		AwayTeam:      "Celtics",
		HomeScore:     75,
		AwayScore:     70,
		Quarter:       3,
		TimeRemaining: "8:30",
		Status:        domain.StatusLive,
	}

	ctx := Build(snap)

	assert.Equal(t, 145.0, ctx.TotalScore)
	assert.Equal(t, 5.0, ctx.ScoreDifferential)
	assert.Equal(t, 5.0, ctx.AbsScoreDifferential)
	assert.Equal(t, 5.0, ctx.CurrentLead)
	assert.True(t, ctx.HomeLeading)
	assert.False(t, ctx.AwayLeading)
	assert.False(t, ctx.Tied)
	assert.Equal(t, "Lakers", ctx.LeadingTeam)
	assert.Equal(t, "Celtics", ctx.LosingTeam)
	assert.Equal(t, 510.0, ctx.TimeRemainingSeconds)
	assert.Equal(t, 3.0, ctx.Quarter)
	assert.Equal(t, "live", ctx.GameStatus)
}

func TestBuild_AwayLeadingFlipsLineSides(t *testing.T) {
	snap := &domain.GameSnapshot{
		GameID:    "game-2",
		HomeTeam:  "Knicks",
		AwayTeam:  "Heat",
		HomeScore: 40,
		AwayScore: 52,
		Status:    domain.StatusLive,
		Lines: domain.Lines{
			Spread:        -4.5,
			MoneylineHome: -180,
			MoneylineAway: 155,
			Total:         215.5,
		},
	}

	ctx := Build(snap)

	assert.True(t, ctx.AwayLeading)
	assert.Equal(t, "Heat", ctx.LeadingTeam)
	assert.Equal(t, "Knicks", ctx.LosingTeam)
	assert.Equal(t, 4.5, ctx.LeadingTeamSpread)
	assert.Equal(t, -4.5, ctx.LosingTeamSpread)
	assert.Equal(t, 155.0, ctx.LeadingTeamMoneyline)
	assert.Equal(t, -180.0, ctx.LosingTeamMoneyline)
}

func TestBuild_TiedGameReadsHomeAsLeading(t *testing.T) {
	snap := &domain.GameSnapshot{
		GameID:    "game-3",
		HomeTeam:  "Bulls",
		AwayTeam:  "Nets",
		HomeScore: 60,
		AwayScore: 60,
		Status:    domain.StatusLive,
		Lines:     domain.Lines{Spread: -2.0},
	}

	ctx := Build(snap)

	assert.True(t, ctx.Tied)
	assert.False(t, ctx.HomeLeading)
	assert.False(t, ctx.AwayLeading)
	assert.Equal(t, "Bulls", ctx.LeadingTeam)
	assert.Equal(t, -2.0, ctx.LeadingTeamSpread)
}

func TestBuild_QuarterAggregates(t *testing.T) {
	snap := &domain.GameSnapshot{
		GameID: "game-4",
		Status: domain.StatusLive,
		Quarters: [4]domain.QuarterScore{
			{Home: 28, Away: 25},
			{Home: 22, Away: 30},
			{Home: 31, Away: 20},
			{Home: 0, Away: 0},
		},
	}

	ctx := Build(snap)

	assert.Equal(t, 53.0, ctx.Q1Total)
	assert.Equal(t, 3.0, ctx.Q1Differential)
	assert.Equal(t, -8.0, ctx.Q2Differential)
	assert.Equal(t, 105.0, ctx.FirstHalfTotal)
	assert.Equal(t, 51.0, ctx.SecondHalfTotal)
}

func TestBuild_HalftimeZeroUntilCaptured(t *testing.T) {
	snap := &domain.GameSnapshot{
		GameID:    "game-5",
		HomeScore: 30,
		AwayScore: 28,
		Quarter:   2,
		Status:    domain.StatusLive,
	}

	ctx := Build(snap)
	assert.Equal(t, 0.0, ctx.HalftimeHome)
	assert.Equal(t, 0.0, ctx.HalftimeTotal)

	snap.Halftime = &domain.HalftimeSnapshot{
		HomeScore:  55,
		AwayScore:  49,
		CapturedAt: time.Now(),
	}
	ctx = Build(snap)
	assert.Equal(t, 55.0, ctx.HalftimeHome)
	assert.Equal(t, 104.0, ctx.HalftimeTotal)
	assert.Equal(t, 6.0, ctx.HalftimeDifferential)
	assert.Equal(t, 6.0, ctx.HalftimeLead)
}

func TestBuild_PlayerDiffsNilOnPartialData(t *testing.T) {
	snap := &domain.GameSnapshot{
		GameID:    "game-6",
		Status:    domain.StatusLive,
		HomeStats: &domain.TeamStats{WinPct: fptr(0.65), PointsPerMinute: fptr(2.3)},
	}

	// Away stats entirely missing: every diff stays nil.
	ctx := Build(snap)
	assert.Nil(t, ctx.WinPctDiff)
	assert.Nil(t, ctx.PpmDiff)
	assert.Nil(t, ctx.ExperienceDiff)

	// Away stats present but experience missing: only that diff is nil.
	snap.AwayStats = &domain.TeamStats{WinPct: fptr(0.50), PointsPerMinute: fptr(2.1)}
	ctx = Build(snap)
	require.NotNil(t, ctx.WinPctDiff)
	assert.InDelta(t, 0.15, *ctx.WinPctDiff, 1e-9)
	require.NotNil(t, ctx.PpmDiff)
	assert.InDelta(t, 0.2, *ctx.PpmDiff, 1e-9)
	assert.Nil(t, ctx.ExperienceDiff)
}

func TestBuild_Deterministic(t *testing.T) {
	snap := &domain.GameSnapshot{
		GameID:    "game-7",
		HomeTeam:  "Suns",
		AwayTeam:  "Spurs",
		HomeScore: 88,
		AwayScore: 91,
		Quarter:   4,
		Status:    domain.StatusLive,
		Lines:     domain.Lines{Spread: 3.5, Total: 224.0},
	}

	a := Build(snap)
	b := Build(snap)
	assert.Equal(t, a, b)
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		clock string
		want  int
	}{
		{"8:30", 510},
		{"12:00", 720},
		{"0:00", 0},
		{"0:59", 59},
		{" 2:05 ", 125},
		{"", 0},
		{"junk", 0},
		{"8", 0},
		{"-1:30", 0},
		{"5:60", 0},
		{"5:-2", 0},
		{"a:bc", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseClock(tt.clock), "clock %q", tt.clock)
	}
}
