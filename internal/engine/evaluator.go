package engine

import (
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sawpanic/courtside/internal/domain"
	"github.com/sawpanic/courtside/internal/pipeline"
)

// FireEvent is emitted when a trigger fires; consumed by the external
// notifier and the signal ledger.
type FireEvent struct {
	StrategyID        string             `json:"strategy_id"`
	StrategyName      string             `json:"strategy_name"`
	TriggerID         string             `json:"trigger_id"`
	TriggerName       string             `json:"trigger_name"`
	Kind              domain.TriggerKind `json:"kind"`
	GameID            string             `json:"game_id"`
	MatchedConditions []domain.Condition `json:"matched_conditions"`
	Context           *pipeline.Context  `json:"context_snapshot"`
	Signal            *domain.Signal     `json:"signal"`
	FiredAt           time.Time          `json:"fired_at"`
}

// Evaluator orchestrates trigger evaluation per strategy per game,
// consulting the signal registry to decide which triggers are eligible.
type Evaluator struct {
	registry *Registry
	now      func() time.Time
}

// NewEvaluator creates an Evaluator over the given registry.
func NewEvaluator(registry *Registry) *Evaluator {
	return &Evaluator{registry: registry, now: time.Now}
}

// Registry exposes the underlying registry (for diagnostics endpoints).
func (e *Evaluator) Registry() *Registry { return e.registry }

// SetClock overrides the evaluator clock (for testing).
func (e *Evaluator) SetClock(now func() time.Time) { e.now = now }

// EvaluateStrategies runs every active strategy against one game's
// current context, returning all fire events of this cycle.
func (e *Evaluator) EvaluateStrategies(strategies []domain.Strategy, gameID string, ctx *pipeline.Context) []FireEvent {
	var events []FireEvent
	for i := range strategies {
		events = append(events, e.EvaluateStrategy(&strategies[i], gameID, ctx)...)
	}
	return events
}

// EvaluateStrategy runs one strategy against one game's context. At most
// one trigger fires per strategy per cycle: in parallel mode the
// lowest-ordered match, in sequential mode the single staged candidate.
func (e *Evaluator) EvaluateStrategy(s *domain.Strategy, gameID string, ctx *pipeline.Context) []FireEvent {
	if !s.IsActive || len(s.Triggers) == 0 {
		return nil
	}
	key := domain.SignalKey{StrategyID: s.ID, GameID: gameID}
	active, hasActive := e.registry.Active(key)

	ordered := orderedTriggers(s.Triggers)

	var fired *TriggerResult
	switch s.TriggerMode {
	case domain.ModeSequential:
		fired = e.evaluateSequential(ordered, ctx, active, hasActive)
	default:
		fired = e.evaluateParallel(ordered, ctx, hasActive)
	}
	if fired == nil {
		return nil
	}

	var sig *domain.Signal
	var ok bool
	if fired.Trigger.Kind == domain.TriggerEntry {
		sig, ok = e.openSignal(key, s, fired.Trigger, ctx)
	} else {
		sig, ok = e.closeSignal(key, s, active, ctx)
	}
	if !ok {
		// Registry declined (duplicate open or missing signal); the
		// trigger matched but nothing changed, so nothing to notify.
		return nil
	}

	log.Debug().
		Str("strategy", s.ID).
		Str("game", gameID).
		Str("trigger", fired.Trigger.Name).
		Str("kind", string(fired.Trigger.Kind)).
		Msg("trigger fired")

	return []FireEvent{{
		StrategyID:        s.ID,
		StrategyName:      s.Name,
		TriggerID:         fired.Trigger.ID,
		TriggerName:       fired.Trigger.Name,
		Kind:              fired.Trigger.Kind,
		GameID:            gameID,
		MatchedConditions: fired.Matched,
		Context:           ctx,
		Signal:            sig,
		FiredAt:           e.now(),
	}}
}

// evaluateSequential stages confirmation: the only candidate is the
// lowest-ordered trigger that has not fired for this signal, and it is
// evaluated only when the registry state admits its kind.
func (e *Evaluator) evaluateSequential(ordered []domain.Trigger, ctx *pipeline.Context, active *domain.Signal, hasActive bool) *TriggerResult {
	lastFired := -1 << 31
	if hasActive {
		lastFired = active.LastFiredOrder
	}
	for i := range ordered {
		if ordered[i].Order <= lastFired {
			continue
		}
		if !kindEligible(ordered[i].Kind, hasActive) {
			// Strict staging: the next trigger in sequence is not
			// admissible yet, so nothing fires this cycle.
			return nil
		}
		res := EvaluateTrigger(ctx, ordered[i])
		if res.Passed {
			return &res
		}
		return nil
	}
	return nil
}

// evaluateParallel evaluates all eligible triggers independently against
// the current context; the lowest-ordered match fires.
func (e *Evaluator) evaluateParallel(ordered []domain.Trigger, ctx *pipeline.Context, hasActive bool) *TriggerResult {
	for i := range ordered {
		if !kindEligible(ordered[i].Kind, hasActive) {
			continue
		}
		res := EvaluateTrigger(ctx, ordered[i])
		if res.Passed {
			return &res
		}
	}
	return nil
}

func kindEligible(kind domain.TriggerKind, hasActive bool) bool {
	if kind == domain.TriggerEntry {
		return !hasActive
	}
	return hasActive
}

func (e *Evaluator) openSignal(key domain.SignalKey, s *domain.Strategy, trigger domain.Trigger, ctx *pipeline.Context) (*domain.Signal, bool) {
	entryValue := ctx.LeadingTeamSpread
	if s.BetType == domain.BetTotal {
		entryValue = ctx.TotalLine
	}
	return e.registry.Open(key, OpenParams{
		EntryValue:      entryValue,
		LeadingTeamHome: ctx.ScoreDifferential >= 0,
		EntryOdds:       trigger.Odds,
		TriggerOrder:    trigger.Order,
	})
}

func (e *Evaluator) closeSignal(key domain.SignalKey, s *domain.Strategy, active *domain.Signal, ctx *pipeline.Context) (*domain.Signal, bool) {
	if active == nil {
		return nil, false
	}
	outcome, closeValue := resolve(s.BetType, active, int(ctx.HomeScore), int(ctx.AwayScore))
	return e.registry.Close(key, closeValue, outcome)
}

// ForceClose resolves any open signal for (strategy, game) against the
// final score. The service applies it on game finalization and the
// backtest engine at the end of each replayed game.
func (e *Evaluator) ForceClose(s *domain.Strategy, gameID string, homeScore, awayScore int) (*domain.Signal, bool) {
	key := domain.SignalKey{StrategyID: s.ID, GameID: gameID}
	active, ok := e.registry.Active(key)
	if !ok {
		return nil, false
	}
	outcome, closeValue := resolve(s.BetType, active, homeScore, awayScore)
	return e.registry.Close(key, closeValue, outcome)
}

func resolve(betType domain.BetType, sig *domain.Signal, homeScore, awayScore int) (domain.SignalStatus, float64) {
	if betType == domain.BetTotal {
		return ResolveTotal(sig.EntryValue, homeScore, awayScore)
	}
	return ResolveSpread(sig.EntryValue, sig.LeadingTeamHome, homeScore, awayScore)
}

func orderedTriggers(triggers []domain.Trigger) []domain.Trigger {
	out := make([]domain.Trigger, len(triggers))
	copy(out, triggers)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
