// Package app wires the live evaluation pipeline: reducer, context
// builder, evaluator, ledger and notifier.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sawpanic/courtside/internal/domain"
	"github.com/sawpanic/courtside/internal/engine"
	"github.com/sawpanic/courtside/internal/gamestate"
	"github.com/sawpanic/courtside/internal/metrics"
	"github.com/sawpanic/courtside/internal/notify"
	"github.com/sawpanic/courtside/internal/persistence"
	"github.com/sawpanic/courtside/internal/pipeline"
)

// Service runs the per-delta evaluation cycle. It owns no state of its
// own beyond the loaded strategy set; game and signal state live in the
// reducer and registry respectively.
type Service struct {
	reducer   *gamestate.Reducer
	games     gamestate.GameStore
	evaluator *engine.Evaluator
	notifier  notify.Notifier
	ledger    persistence.SignalLedger
	metrics   *metrics.Registry

	strategyRepo persistence.StrategyRepo

	mu         sync.RWMutex
	strategies []domain.Strategy

	evalMu   sync.Mutex
	lastEval map[string]evalMark
}

// evalMark remembers the snapshot state the last evaluation cycle for a
// game ran against.
type evalMark struct {
	version int64
	status  domain.GameStatus
}

// Deps holds the service dependencies. Ledger and StrategyRepo may be
// nil when running without a database.
type Deps struct {
	Reducer      *gamestate.Reducer
	Games        gamestate.GameStore
	Evaluator    *engine.Evaluator
	Notifier     notify.Notifier
	Ledger       persistence.SignalLedger
	Metrics      *metrics.Registry
	StrategyRepo persistence.StrategyRepo
}

// NewService creates the service. A nil notifier falls back to logging.
func NewService(deps Deps) *Service {
	if deps.Notifier == nil {
		deps.Notifier = notify.LogNotifier{}
	}
	return &Service{
		reducer:      deps.Reducer,
		games:        deps.Games,
		evaluator:    deps.Evaluator,
		notifier:     deps.Notifier,
		ledger:       deps.Ledger,
		metrics:      deps.Metrics,
		strategyRepo: deps.StrategyRepo,
		lastEval:     make(map[string]evalMark),
	}
}

// SetStrategies replaces the loaded strategy set.
func (s *Service) SetStrategies(strategies []domain.Strategy) {
	s.mu.Lock()
	s.strategies = strategies
	s.mu.Unlock()
}

// Strategies returns the currently loaded strategy set.
func (s *Service) Strategies() []domain.Strategy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Strategy, len(s.strategies))
	copy(out, s.strategies)
	return out
}

// RefreshStrategies reloads active strategies from the repository.
func (s *Service) RefreshStrategies(ctx context.Context) error {
	if s.strategyRepo == nil {
		return nil
	}
	strategies, err := s.strategyRepo.ListActive(ctx)
	if err != nil {
		return err
	}
	s.SetStrategies(strategies)
	log.Info().Int("count", len(strategies)).Msg("strategies loaded")
	return nil
}

// HandleDelta runs one full cycle: merge the delta, rebuild the context
// and evaluate every loaded strategy against it.
func (s *Service) HandleDelta(ctx context.Context, delta domain.GameDelta) (*domain.GameSnapshot, []domain.CorrectionNote, error) {
	start := time.Now()

	snap, notes, err := s.reducer.Apply(ctx, delta)
	if err != nil {
		return nil, nil, err
	}
	if s.metrics != nil {
		s.metrics.DeltasApplied.Inc()
		for _, note := range notes {
			s.metrics.CorrectionsEmitted.WithLabelValues(note.Field).Inc()
		}
	}
	s.recordCorrections(ctx, notes)

	if s.shouldEvaluate(snap) {
		gameCtx := pipeline.Build(snap)
		strategies := s.Strategies()
		events := s.evaluator.EvaluateStrategies(strategies, snap.GameID, gameCtx)
		if s.metrics != nil {
			// At most one trigger fires per strategy per cycle.
			s.metrics.TriggerEvaluations.WithLabelValues("fired").Add(float64(len(events)))
			s.metrics.TriggerEvaluations.WithLabelValues("no_fire").Add(float64(len(strategies) - len(events)))
		}
		for i := range events {
			s.dispatch(ctx, &events[i])
		}

		if snap.Status == domain.StatusFinal {
			s.finalize(ctx, snap)
		}
	}

	if s.metrics != nil {
		s.metrics.EvaluationDuration.Observe(time.Since(start).Seconds())
		s.metrics.ActiveSignals.Set(float64(len(s.evaluator.Registry().AllActive())))
	}
	return snap, notes, nil
}

// shouldEvaluate reports whether the merged snapshot warrants an
// evaluation cycle. A delta that changed nothing leaves the version
// untouched and is skipped, as is any delta arriving after the game was
// already evaluated as final: the finalizer has settled its signals, and
// re-delivered final deltas must not re-open them.
func (s *Service) shouldEvaluate(snap *domain.GameSnapshot) bool {
	s.evalMu.Lock()
	defer s.evalMu.Unlock()
	last, seen := s.lastEval[snap.GameID]
	s.lastEval[snap.GameID] = evalMark{version: snap.Version, status: snap.Status}
	if !seen {
		return true
	}
	if last.status == domain.StatusFinal {
		return false
	}
	return snap.Version != last.version
}

// ConsumeFeed drains deltas from the stream client until the channel
// closes or ctx is cancelled.
func (s *Service) ConsumeFeed(ctx context.Context, deltas <-chan domain.GameDelta) {
	for {
		select {
		case <-ctx.Done():
			return
		case delta, ok := <-deltas:
			if !ok {
				return
			}
			if _, _, err := s.HandleDelta(ctx, delta); err != nil {
				log.Error().Err(err).Str("game", delta.GameID).Msg("feed delta failed")
			}
		}
	}
}

// AllActive implements the HTTP signal source.
func (s *Service) AllActive() []*domain.Signal {
	return s.evaluator.Registry().AllActive()
}

// Get implements the HTTP game source.
func (s *Service) Get(ctx context.Context, gameID string) (*domain.GameSnapshot, error) {
	return s.games.Get(ctx, gameID)
}

// List implements the HTTP game source.
func (s *Service) List(ctx context.Context) ([]*domain.GameSnapshot, error) {
	return s.games.List(ctx)
}

// dispatch records and delivers one fire event. Delivery failures are
// logged, never propagated: the evaluation cycle must not stall on a
// slow consumer.
func (s *Service) dispatch(ctx context.Context, event *engine.FireEvent) {
	if s.metrics != nil {
		if event.Kind == domain.TriggerEntry {
			s.metrics.SignalsOpened.Inc()
		} else if event.Signal != nil {
			s.metrics.SignalsClosed.WithLabelValues(string(event.Signal.Status)).Inc()
		}
	}
	if s.ledger != nil && event.Signal != nil {
		var err error
		if event.Kind == domain.TriggerEntry {
			err = s.ledger.RecordOpen(ctx, event.Signal)
		} else {
			err = s.ledger.RecordClose(ctx, event.Signal)
		}
		if err != nil {
			log.Error().Err(err).Str("signal", event.Signal.ID).Msg("ledger write failed")
		}
	}
	if err := s.notifier.Notify(ctx, event); err != nil {
		log.Warn().Err(err).Str("trigger", event.TriggerID).Msg("notification failed")
	}
}

// finalize resolves every open signal for a finished game against the
// final score.
func (s *Service) finalize(ctx context.Context, snap *domain.GameSnapshot) {
	strategies := s.Strategies()
	for i := range strategies {
		sig, closed := s.evaluator.ForceClose(&strategies[i], snap.GameID, snap.HomeScore, snap.AwayScore)
		if !closed {
			continue
		}
		if s.metrics != nil {
			s.metrics.SignalsClosed.WithLabelValues(string(sig.Status)).Inc()
		}
		if s.ledger != nil {
			if err := s.ledger.RecordClose(ctx, sig); err != nil {
				log.Error().Err(err).Str("signal", sig.ID).Msg("ledger write failed")
			}
		}
		log.Info().
			Str("strategy", strategies[i].ID).
			Str("game", snap.GameID).
			Str("outcome", string(sig.Status)).
			Msg("signal resolved at final")
	}
}

// recordCorrections persists reducer corrections when a sink is wired.
func (s *Service) recordCorrections(ctx context.Context, notes []domain.CorrectionNote) {
	if s.ledger == nil || len(notes) == 0 {
		return
	}
	sink, ok := s.ledger.(persistence.CorrectionSink)
	if !ok {
		return
	}
	if err := sink.RecordCorrections(ctx, notes); err != nil {
		log.Error().Err(err).Msg("correction write failed")
	}
}
