package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sawpanic/courtside/internal/domain"
)

func TestResolveSpread(t *testing.T) {
	tests := []struct {
		name        string
		entrySpread float64
		leadingHome bool
		home, away  int
		want        domain.SignalStatus
		wantMargin  float64
	}{
		{"home favorite covers", -6.5, true, 110, 100, domain.SignalWon, 10},
		{"home favorite fails to cover", -6.5, true, 104, 100, domain.SignalLost, 4},
		{"away side covers", -3.5, false, 100, 108, domain.SignalWon, 8},
		{"away side loses outright", -3.5, false, 105, 100, domain.SignalLost, -5},
		{"exact cover pushes", -6.0, true, 106, 100, domain.SignalPushed, 6},
		{"underdog keeps it close", 4.5, true, 98, 100, domain.SignalWon, -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, margin := ResolveSpread(tt.entrySpread, tt.leadingHome, tt.home, tt.away)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantMargin, margin)
		})
	}
}

func TestResolveTotal(t *testing.T) {
	won, combined := ResolveTotal(215.5, 112, 108)
	assert.Equal(t, domain.SignalWon, won)
	assert.Equal(t, 220.0, combined)

	lost, _ := ResolveTotal(225.5, 112, 108)
	assert.Equal(t, domain.SignalLost, lost)

	pushed, _ := ResolveTotal(220.0, 112, 108)
	assert.Equal(t, domain.SignalPushed, pushed)
}

func TestPayout(t *testing.T) {
	assert.InDelta(t, 1.5, Payout(1, 150), 1e-9, "positive odds: stake*odds/100")
	assert.InDelta(t, 10.0/11, Payout(1, -110), 1e-9, "negative odds: stake*100/|odds|")
	assert.InDelta(t, 1.0, Payout(1, 0), 1e-9, "zero odds fall back to flat 1:1")
	assert.InDelta(t, 7.5, Payout(5, 150), 1e-9)
}
