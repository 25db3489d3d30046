package backtest

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_WriteResult(t *testing.T) {
	dir := t.TempDir()
	writer := NewWriter(dir)

	result := &Result{
		StartedAt:      time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
		FinishedAt:     time.Date(2026, 2, 1, 12, 5, 0, 0, time.UTC),
		GamesTotal:     10,
		GamesProcessed: 10,
		Summaries: []StrategySummary{
			{StrategyID: "s1", StrategyName: "third quarter lead", Wins: 6, Losses: 4, WinRate: 0.6},
		},
	}

	path, err := writer.WriteResult(result)
	require.NoError(t, err)
	assert.Contains(t, path, "backtest_20260201T120000Z.json")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded Result
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, result.GamesProcessed, decoded.GamesProcessed)
	require.Len(t, decoded.Summaries, 1)
	assert.Equal(t, 0.6, decoded.Summaries[0].WinRate)
}
