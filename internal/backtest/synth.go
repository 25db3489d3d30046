package backtest

import (
	"time"

	"github.com/sawpanic/courtside/internal/domain"
	"github.com/sawpanic/courtside/internal/pipeline"
)

// Synthesize builds the chronological sequence of evaluation contexts for
// one historical game at quarter boundaries: end of Q1, halftime, end of
// Q3, final. Each context comes from the live context builder applied to
// a reconstructed snapshot, so live and historical semantics cannot
// drift apart.
func Synthesize(h *domain.HistoricalGame) []*pipeline.Context {
	contexts := make([]*pipeline.Context, 0, 4)

	var cumHome, cumAway int
	var halftime *domain.HalftimeSnapshot

	for q := 1; q <= 4; q++ {
		cumHome += h.Quarters[q-1].Home
		cumAway += h.Quarters[q-1].Away

		snap := &domain.GameSnapshot{
			GameID:        h.GameID,
			HomeTeam:      h.HomeTeam,
			AwayTeam:      h.AwayTeam,
			HomeScore:     cumHome,
			AwayScore:     cumAway,
			Quarter:       q,
			TimeRemaining: "0:00",
			Status:        domain.StatusLive,
			Lines:         h.OpeningLines,
		}
		for i := 0; i < q; i++ {
			snap.Quarters[i] = h.Quarters[i]
		}

		switch q {
		case 2:
			halftime = &domain.HalftimeSnapshot{
				HomeScore:  cumHome,
				AwayScore:  cumAway,
				CapturedAt: h.PlayedAt,
			}
			snap.Status = domain.StatusHalftime
		case 4:
			// Overtime points are folded into the final score only.
			snap.HomeScore = h.FinalHome
			snap.AwayScore = h.FinalAway
			snap.Status = domain.StatusFinal
		}
		if halftime != nil {
			snap.Halftime = halftime
		}
		snap.UpdatedAt = boundaryTime(h.PlayedAt, q)

		contexts = append(contexts, pipeline.Build(snap))
	}
	return contexts
}

// boundaryTime spaces synthetic boundaries so entry/close timestamps stay
// ordered within a replayed game.
func boundaryTime(playedAt time.Time, quarter int) time.Time {
	return playedAt.Add(time.Duration(quarter) * 30 * time.Minute)
}
