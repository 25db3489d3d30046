package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/courtside/internal/domain"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadStrategies_Valid(t *testing.T) {
	path := writeTemp(t, "strategies.yaml", `
strategies:
  - id: s1
    name: third quarter lead
    trigger_mode: sequential
    bet_type: total
    is_active: true
    triggers:
      - id: t1
        name: lead builds
        order: 1
        kind: entry
        conditions:
          - field: quarter
            operator: equals
            value: 3
          - field: absScoreDifferential
            operator: between
            value: 5
            value2: 12
  - id: s2
    name: defaults applied
    is_active: true
    triggers:
      - id: t1
        name: any lead
        order: 1
        kind: entry
        conditions:
          - field: homeLeading
            operator: equals
            value: true
`)

	strategies, err := LoadStrategies(path)
	require.NoError(t, err)
	require.Len(t, strategies, 2)

	s1 := strategies[0]
	assert.Equal(t, domain.ModeSequential, s1.TriggerMode)
	assert.Equal(t, domain.BetTotal, s1.BetType)
	require.Len(t, s1.Triggers, 1)
	assert.Equal(t, "s1", s1.Triggers[0].StrategyID, "strategy id propagated")
	assert.Equal(t, 3.0, s1.Triggers[0].Conditions[0].Value, "YAML integers widened to float64")
	assert.Equal(t, 12.0, s1.Triggers[0].Conditions[1].Value2)

	s2 := strategies[1]
	assert.Equal(t, domain.ModeParallel, s2.TriggerMode, "mode defaults to parallel")
	assert.Equal(t, domain.BetSpread, s2.BetType, "bet type defaults to spread")
	assert.Equal(t, true, s2.Triggers[0].Conditions[0].Value)
}

func TestLoadStrategies_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing id", `
strategies:
  - name: nameless
`},
		{"unknown field", `
strategies:
  - id: s1
    name: bad
    triggers:
      - id: t1
        name: t
        kind: entry
        conditions:
          - field: powerRanking
            operator: equals
            value: 1
`},
		{"unknown kind", `
strategies:
  - id: s1
    name: bad
    triggers:
      - id: t1
        name: t
        kind: sideways
        conditions:
          - field: quarter
            operator: equals
            value: 1
`},
		{"not yaml", `{{{{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, "bad.yaml", tt.content)
			_, err := LoadStrategies(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadCorpus(t *testing.T) {
	path := writeTemp(t, "corpus.json", `[
		{
			"game_id": "h1",
			"home_team": "Lakers",
			"away_team": "Celtics",
			"final_home": 112,
			"final_away": 105,
			"quarters": [
				{"home": 30, "away": 25},
				{"home": 25, "away": 24},
				{"home": 32, "away": 26},
				{"home": 25, "away": 30}
			],
			"opening_lines": {"spread": -5.5, "total": 214.5},
			"winner": "Lakers",
			"played_at": "2026-01-10T19:00:00Z"
		}
	]`)

	games, err := LoadCorpus(path)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "h1", games[0].GameID)
	assert.Equal(t, 112, games[0].FinalHome)
	assert.Equal(t, -5.5, games[0].OpeningLines.Spread)
	assert.NoError(t, games[0].Validate())

	_, err = LoadCorpus(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
