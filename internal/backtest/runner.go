package backtest

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sawpanic/courtside/internal/domain"
	"github.com/sawpanic/courtside/internal/engine"
)

// Clock is injectable for deterministic tests.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using real time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// Runner executes backtests of strategies over a historical game corpus.
type Runner struct {
	config *Config
	clock  Clock
}

// NewRunner creates a Runner with the given configuration.
func NewRunner(config *Config) *Runner {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.Stake <= 0 {
		config.Stake = 1.0
	}
	return &Runner{config: config, clock: RealClock{}}
}

// SetClock sets the clock implementation (for testing).
func (r *Runner) SetClock(clock Clock) { r.clock = clock }

// strategyTally accumulates one strategy's aggregates under its own lock.
type strategyTally struct {
	mu      sync.Mutex
	summary StrategySummary
	staked  float64
	profit  float64
}

func (t *strategyTally) recordGame() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.summary.GamesAnalyzed++
}

func (t *strategyTally) recordFire(kind domain.TriggerKind) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.summary.TriggersFound++
	if kind == domain.TriggerEntry {
		t.summary.PotentialBets++
	}
}

func (t *strategyTally) recordOutcome(sig *domain.Signal, stake float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.staked += stake
	switch sig.Status {
	case domain.SignalWon:
		t.summary.Wins++
		t.profit += engine.Payout(stake, sig.EntryOdds)
	case domain.SignalLost:
		t.summary.Losses++
		t.profit -= stake
	case domain.SignalPushed:
		t.summary.Pushes++
	}
}

func (t *strategyTally) finish() StrategySummary {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.summary
	if decided := s.Wins + s.Losses; decided > 0 {
		s.WinRate = float64(s.Wins) / float64(decided)
	}
	if t.staked > 0 {
		s.ROI = t.profit / t.staked
	}
	return s
}

// Run replays the corpus through the strategy evaluator. Distinct games
// replay in parallel; each game's synthetic context sequence runs in
// strict chronological order because sequential trigger staging depends
// on causal order. On budget cutoff the accumulated aggregates are
// returned annotated as partial rather than discarded.
func (r *Runner) Run(ctx context.Context, strategies []domain.Strategy, corpus []domain.HistoricalGame) (*Result, error) {
	startedAt := r.clock.Now()
	result := &Result{StartedAt: startedAt, GamesTotal: len(corpus)}

	if r.config.Budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Budget)
		defer cancel()
	}

	games := corpus
	if r.config.MaxGames > 0 && len(games) > r.config.MaxGames {
		games = games[:r.config.MaxGames]
		result.Partial = true
	}

	tallies := make(map[string]*strategyTally, len(strategies))
	active := make([]domain.Strategy, 0, len(strategies))
	for _, s := range strategies {
		if !s.IsActive {
			continue
		}
		active = append(active, s)
		tallies[s.ID] = &strategyTally{summary: StrategySummary{
			StrategyID:   s.ID,
			StrategyName: s.Name,
		}}
	}

	// Signal keys are (strategy, game) pairs, so one shared registry is
	// safe across game workers: they never touch the same key.
	evaluator := engine.NewEvaluator(engine.NewRegistry(engine.NewMemorySignalStore()))

	var (
		wg        sync.WaitGroup
		statsMu   sync.Mutex
		processed int
		skipped   int
	)
	sem := make(chan struct{}, r.config.Workers)

dispatch:
	for i := range games {
		select {
		case <-ctx.Done():
			result.Partial = true
			break dispatch
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(game *domain.HistoricalGame) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := game.Validate(); err != nil {
				log.Warn().Str("game", game.GameID).Err(err).Msg("skipping malformed historical record")
				statsMu.Lock()
				skipped++
				statsMu.Unlock()
				return
			}
			r.replayGame(evaluator, active, tallies, game)
			statsMu.Lock()
			processed++
			statsMu.Unlock()
		}(&games[i])
	}
	wg.Wait()

	result.GamesProcessed = processed
	result.GamesSkipped = skipped
	result.Summaries = make([]StrategySummary, 0, len(active))
	for _, s := range active {
		result.Summaries = append(result.Summaries, tallies[s.ID].finish())
	}
	result.FinishedAt = r.clock.Now()

	log.Info().
		Int("games", result.GamesProcessed).
		Int("skipped", result.GamesSkipped).
		Bool("partial", result.Partial).
		Dur("elapsed", result.FinishedAt.Sub(result.StartedAt)).
		Msg("backtest run complete")
	return result, nil
}

// replayGame drives one game's quarter-boundary contexts through the
// evaluator and settles whatever remains open against the final score.
func (r *Runner) replayGame(evaluator *engine.Evaluator, strategies []domain.Strategy, tallies map[string]*strategyTally, game *domain.HistoricalGame) {
	contexts := Synthesize(game)

	for _, t := range tallies {
		t.recordGame()
	}

	for _, evalCtx := range contexts {
		events := evaluator.EvaluateStrategies(strategies, game.GameID, evalCtx)
		for _, ev := range events {
			tally := tallies[ev.StrategyID]
			tally.recordFire(ev.Kind)
			if ev.Kind == domain.TriggerClose && ev.Signal != nil {
				tally.recordOutcome(ev.Signal, r.config.Stake)
			}
		}
	}

	// An entry without a matching close by game end is force-closed
	// against the final score.
	for i := range strategies {
		if sig, ok := evaluator.ForceClose(&strategies[i], game.GameID, game.FinalHome, game.FinalAway); ok {
			tallies[strategies[i].ID].recordOutcome(sig, r.config.Stake)
		}
	}
}
