package engine

import "github.com/sawpanic/courtside/internal/domain"

// ResolveSpread scores a spread signal. The entry-time leading team's
// recorded spread is compared against the actual margin from that team's
// perspective: cover wins, exact equality after adjustment pushes.
// Returns the outcome and the margin recorded as close value.
func ResolveSpread(entrySpread float64, leadingTeamHome bool, homeScore, awayScore int) (domain.SignalStatus, float64) {
	margin := float64(homeScore - awayScore)
	if !leadingTeamHome {
		margin = -margin
	}
	adjusted := margin + entrySpread
	switch {
	case adjusted > 0:
		return domain.SignalWon, margin
	case adjusted < 0:
		return domain.SignalLost, margin
	default:
		return domain.SignalPushed, margin
	}
}

// ResolveTotal scores a total signal against the recorded line. Total
// strategies take the over side; exact equality pushes. Returns the
// outcome and the combined score recorded as close value.
func ResolveTotal(totalLine float64, homeScore, awayScore int) (domain.SignalStatus, float64) {
	combined := float64(homeScore + awayScore)
	switch {
	case combined > totalLine:
		return domain.SignalWon, combined
	case combined < totalLine:
		return domain.SignalLost, combined
	default:
		return domain.SignalPushed, combined
	}
}

// Payout converts American odds into net profit for a winning one-unit
// stake: stake*odds/100 for positive odds, stake*100/|odds| for negative.
// Zero odds fall back to flat 1:1 staking.
func Payout(stake float64, odds int) float64 {
	switch {
	case odds > 0:
		return stake * float64(odds) / 100
	case odds < 0:
		return stake * 100 / float64(-odds)
	default:
		return stake
	}
}
