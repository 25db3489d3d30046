package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/courtside/internal/domain"
)

func historicalGame() domain.HistoricalGame {
	return domain.HistoricalGame{
		GameID:    "h1",
		HomeTeam:  "Lakers",
		AwayTeam:  "Celtics",
		FinalHome: 112,
		FinalAway: 105,
		Quarters: [4]domain.QuarterScore{
			{Home: 30, Away: 25},
			{Home: 25, Away: 24},
			{Home: 32, Away: 26},
			{Home: 25, Away: 30},
		},
		OpeningLines: domain.Lines{Spread: -5.5, MoneylineHome: -220, MoneylineAway: 180, Total: 214.5},
		Winner:       "Lakers",
		PlayedAt:     time.Date(2026, 1, 10, 19, 0, 0, 0, time.UTC),
	}
}

func TestSynthesize_FourBoundaries(t *testing.T) {
	h := historicalGame()
	contexts := Synthesize(&h)
	require.Len(t, contexts, 4)

	// End of Q1
	assert.Equal(t, 1.0, contexts[0].Quarter)
	assert.Equal(t, 30.0, contexts[0].HomeScore)
	assert.Equal(t, 5.0, contexts[0].ScoreDifferential)
	assert.Equal(t, "live", contexts[0].GameStatus)

	// Halftime
	assert.Equal(t, "halftime", contexts[1].GameStatus)
	assert.Equal(t, 55.0, contexts[1].HomeScore)
	assert.Equal(t, 55.0, contexts[1].HalftimeHome)
	assert.Equal(t, 49.0, contexts[1].HalftimeAway)
	assert.Equal(t, 104.0, contexts[1].HalftimeTotal)

	// End of Q3 carries the halftime snapshot forward
	assert.Equal(t, 3.0, contexts[2].Quarter)
	assert.Equal(t, 55.0, contexts[2].HalftimeHome)
	assert.Equal(t, 87.0, contexts[2].HomeScore)

	// Final uses the recorded final score, not the quarter sum
	assert.Equal(t, "final", contexts[3].GameStatus)
	assert.Equal(t, 112.0, contexts[3].HomeScore)
	assert.Equal(t, 105.0, contexts[3].AwayScore)
	assert.Equal(t, 7.0, contexts[3].ScoreDifferential)
}

func TestSynthesize_LinesAvailableAtEveryBoundary(t *testing.T) {
	h := historicalGame()
	for i, ctx := range Synthesize(&h) {
		assert.Equal(t, -5.5, ctx.Spread, "boundary %d", i)
		assert.Equal(t, 214.5, ctx.TotalLine, "boundary %d", i)
	}
}

func TestSynthesize_OvertimeFoldedIntoFinalOnly(t *testing.T) {
	h := historicalGame()
	h.FinalHome = 120 // 8 OT points beyond the quarter sum
	contexts := Synthesize(&h)

	assert.Equal(t, 112.0, contexts[2].HomeScore+float64(h.Quarters[3].Home), "Q3 cumulative unaffected")
	assert.Equal(t, 120.0, contexts[3].HomeScore)
}
