package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameSnapshot_CloneIsDeep(t *testing.T) {
	wp := 0.6
	snap := &GameSnapshot{
		GameID:    "g1",
		HomeScore: 50,
		Halftime:  &HalftimeSnapshot{HomeScore: 30},
		HomeStats: &TeamStats{WinPct: &wp},
	}

	cp := snap.Clone()
	cp.HomeScore = 99
	cp.Halftime.HomeScore = 99
	*cp.HomeStats.WinPct = 0.1

	assert.Equal(t, 50, snap.HomeScore)
	assert.Equal(t, 30, snap.Halftime.HomeScore)
	assert.Equal(t, 0.6, *snap.HomeStats.WinPct)

	var nilSnap *GameSnapshot
	assert.Nil(t, nilSnap.Clone())
}

func TestGameStatus_IsValid(t *testing.T) {
	assert.True(t, StatusLive.IsValid())
	assert.True(t, StatusHalftime.IsValid())
	assert.False(t, GameStatus("cancelled").IsValid())
}

func TestSignalStatus_Terminal(t *testing.T) {
	assert.False(t, SignalActive.Terminal())
	assert.True(t, SignalWon.Terminal())
	assert.True(t, SignalLost.Terminal())
	assert.True(t, SignalPushed.Terminal())
}

func TestHistoricalGame_Validate(t *testing.T) {
	valid := HistoricalGame{
		GameID:    "h1",
		HomeTeam:  "Lakers",
		AwayTeam:  "Celtics",
		FinalHome: 112,
		FinalAway: 105,
		Quarters: [4]QuarterScore{
			{Home: 30, Away: 25}, {Home: 25, Away: 24},
			{Home: 32, Away: 26}, {Home: 25, Away: 30},
		},
	}
	require.NoError(t, valid.Validate())

	// OT points in the final only: quarter sums may undercount.
	ot := valid
	ot.FinalHome = 120
	assert.NoError(t, ot.Validate())

	noID := valid
	noID.GameID = ""
	assert.Error(t, noID.Validate())

	noTeam := valid
	noTeam.AwayTeam = ""
	assert.Error(t, noTeam.Validate())

	negative := valid
	negative.FinalHome = -1
	assert.Error(t, negative.Validate())

	overflow := valid
	overflow.Quarters[0].Home = 200
	assert.Error(t, overflow.Validate())
}
