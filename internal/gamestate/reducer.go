package gamestate

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sawpanic/courtside/internal/domain"
	"github.com/sawpanic/courtside/internal/keylock"
)

// Reducer is the state machine owner for live games: scheduled → live ⇄
// halftime → final (final terminal). Updates to the same game id are
// serialized in arrival order; different games proceed in parallel.
type Reducer struct {
	store GameStore
	locks *keylock.KeyLock
	now   func() time.Time
	newID func() string
}

// NewReducer creates a Reducer over the given store.
func NewReducer(store GameStore) *Reducer {
	return &Reducer{
		store: store,
		locks: keylock.New(),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// SetClock overrides the reducer clock (for testing).
func (r *Reducer) SetClock(now func() time.Time) { r.now = now }

// Apply merges one inbound delta into the authoritative snapshot and
// persists the result. Monotonicity violations are auto-corrected and
// surfaced as correction notes; processing always continues.
func (r *Reducer) Apply(ctx context.Context, delta domain.GameDelta) (*domain.GameSnapshot, []domain.CorrectionNote, error) {
	if delta.GameID == "" {
		return nil, nil, fmt.Errorf("game delta: %w", domain.ErrNotFound)
	}
	r.locks.Lock(delta.GameID)
	defer r.locks.Unlock(delta.GameID)

	stored, err := r.store.Get(ctx, delta.GameID)
	if err != nil && err != domain.ErrNotFound {
		return nil, nil, fmt.Errorf("load game %s: %w", delta.GameID, err)
	}

	merged, notes := Merge(stored, delta, r.now(), r.newID)
	if err := r.store.Put(ctx, merged); err != nil {
		return nil, nil, fmt.Errorf("store game %s: %w", delta.GameID, err)
	}
	for _, note := range notes {
		log.Warn().
			Str("game", note.GameID).
			Str("field", note.Field).
			Str("inbound", note.Inbound).
			Str("retained", note.Retained).
			Msg(note.Reason)
	}
	return merged.Clone(), notes, nil
}

// Merge folds an inbound delta into the stored snapshot. Pure: the stored
// snapshot is not mutated, and identical inputs always produce identical
// outputs. A nil stored snapshot means first sight of the game.
func Merge(stored *domain.GameSnapshot, delta domain.GameDelta, now time.Time, newID func() string) (*domain.GameSnapshot, []domain.CorrectionNote) {
	var snap *domain.GameSnapshot
	if stored == nil {
		snap = &domain.GameSnapshot{
			GameID:  delta.GameID,
			Status:  domain.StatusScheduled,
			Quarter: 0,
		}
	} else {
		snap = stored.Clone()
	}

	var notes []domain.CorrectionNote
	note := func(field, inbound, retained, reason string) {
		notes = append(notes, domain.CorrectionNote{
			ID:        newID(),
			GameID:    delta.GameID,
			Field:     field,
			Inbound:   inbound,
			Retained:  retained,
			Reason:    reason,
			Timestamp: now,
		})
	}

	changed := false
	final := snap.Status == domain.StatusFinal
	inPlay := snap.Status == domain.StatusLive || snap.Status == domain.StatusHalftime
	wasLive := snap.Status == domain.StatusLive
	preMergeQuarter := snap.Quarter
	if stored == nil && delta.Quarter != nil {
		// First sight mid-game: the bulk score belongs to the quarter in
		// progress, not to Q1.
		preMergeQuarter = *delta.Quarter
	}

	// Team identity and metadata always apply.
	if delta.HomeTeam != "" && delta.HomeTeam != snap.HomeTeam {
		snap.HomeTeam = delta.HomeTeam
		changed = true
	}
	if delta.AwayTeam != "" && delta.AwayTeam != snap.AwayTeam {
		snap.AwayTeam = delta.AwayTeam
		changed = true
	}

	// Outcome fields are frozen once final: finality is idempotent.
	if !final {
		if delta.Status != nil && delta.Status.IsValid() && *delta.Status != snap.Status {
			snap.Status = *delta.Status
			changed = true
		}
		if delta.Quarter != nil && *delta.Quarter != snap.Quarter {
			if wasLive && *delta.Quarter < preMergeQuarter {
				note("quarter",
					strconv.Itoa(*delta.Quarter), strconv.Itoa(preMergeQuarter),
					"quarter regression rejected while live")
			} else {
				snap.Quarter = *delta.Quarter
				changed = true
			}
		}
		if delta.HomeScore != nil && *delta.HomeScore != snap.HomeScore {
			if inPlay && *delta.HomeScore < snap.HomeScore {
				note("home_score",
					strconv.Itoa(*delta.HomeScore), strconv.Itoa(snap.HomeScore),
					"score regression rejected")
			} else {
				attributeQuarter(snap, preMergeQuarter, *delta.HomeScore-snap.HomeScore, 0)
				snap.HomeScore = *delta.HomeScore
				changed = true
			}
		}
		if delta.AwayScore != nil && *delta.AwayScore != snap.AwayScore {
			if inPlay && *delta.AwayScore < snap.AwayScore {
				note("away_score",
					strconv.Itoa(*delta.AwayScore), strconv.Itoa(snap.AwayScore),
					"score regression rejected")
			} else {
				attributeQuarter(snap, preMergeQuarter, 0, *delta.AwayScore-snap.AwayScore)
				snap.AwayScore = *delta.AwayScore
				changed = true
			}
		}
		if delta.TimeRemaining != nil && *delta.TimeRemaining != snap.TimeRemaining {
			snap.TimeRemaining = *delta.TimeRemaining
			changed = true
		}
	}

	// Line updates apply even after finalization (late odds corrections).
	if delta.Spread != nil && *delta.Spread != snap.Lines.Spread {
		snap.Lines.Spread = *delta.Spread
		changed = true
	}
	if delta.MoneylineHome != nil && *delta.MoneylineHome != snap.Lines.MoneylineHome {
		snap.Lines.MoneylineHome = *delta.MoneylineHome
		changed = true
	}
	if delta.MoneylineAway != nil && *delta.MoneylineAway != snap.Lines.MoneylineAway {
		snap.Lines.MoneylineAway = *delta.MoneylineAway
		changed = true
	}
	if delta.Total != nil && *delta.Total != snap.Lines.Total {
		snap.Lines.Total = *delta.Total
		changed = true
	}
	if delta.HomeStats != nil {
		snap.HomeStats = delta.HomeStats
		changed = true
	}
	if delta.AwayStats != nil {
		snap.AwayStats = delta.AwayStats
		changed = true
	}

	// A game joined after the half has no observable halftime score.
	if stored == nil && (snap.Quarter > 2 || snap.Status == domain.StatusFinal) {
		snap.HalftimeMissed = true
	}

	// Halftime snapshot: captured exactly once, immutable afterwards.
	if snap.Halftime == nil && !snap.HalftimeMissed &&
		(snap.Quarter > 2 || snap.Status == domain.StatusHalftime) {
		snap.Halftime = captureHalftime(snap, now)
		changed = true
	}

	if changed {
		snap.Version++
		snap.UpdatedAt = now
	}
	return snap, notes
}

// attributeQuarter folds a score increment into the per-quarter breakdown.
// Points are credited to the quarter in effect before the delta; overtime
// points fold into the fourth quarter.
func attributeQuarter(snap *domain.GameSnapshot, quarter, homePts, awayPts int) {
	if homePts <= 0 && awayPts <= 0 {
		return
	}
	idx := quarter - 1
	if idx < 0 {
		idx = 0
	}
	if idx > 3 {
		idx = 3
	}
	if homePts > 0 {
		snap.Quarters[idx].Home += homePts
	}
	if awayPts > 0 {
		snap.Quarters[idx].Away += awayPts
	}
}

// captureHalftime records the score at the half. When the quarter
// breakdown already carries first-half points it is preferred over the
// running score, which may include early third-quarter points when the
// feed skipped the halftime status.
func captureHalftime(snap *domain.GameSnapshot, now time.Time) *domain.HalftimeSnapshot {
	home := snap.Quarters[0].Home + snap.Quarters[1].Home
	away := snap.Quarters[0].Away + snap.Quarters[1].Away
	if home == 0 && away == 0 {
		home = snap.HomeScore
		away = snap.AwayScore
	}
	return &domain.HalftimeSnapshot{
		HomeScore:  home,
		AwayScore:  away,
		CapturedAt: now,
	}
}
