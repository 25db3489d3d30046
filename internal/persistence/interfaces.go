// Package persistence is the record-store boundary. Strategy and trigger
// definitions are parsed and validated here; the engine only ever
// receives the typed model.
package persistence

import (
	"context"
	"time"

	"github.com/sawpanic/courtside/internal/domain"
)

// StrategyRepo loads strategy definitions from the external record store.
type StrategyRepo interface {
	// ListActive returns all active strategies with their triggers in
	// order, conditions already parsed into the typed model.
	ListActive(ctx context.Context) ([]domain.Strategy, error)
	// Get returns one strategy by id, or domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.Strategy, error)
}

// HistoryRepo reads the finalized game archive for backtesting.
type HistoryRepo interface {
	// List returns historical games ordered by played_at ascending,
	// capped at limit (zero means no cap).
	List(ctx context.Context, limit int) ([]domain.HistoricalGame, error)
}

// SignalLedger records signal lifecycle transitions for the external
// bookkeeping collaborator. Ledger failures must never break evaluation.
type SignalLedger interface {
	// RecordOpen persists a newly opened signal.
	RecordOpen(ctx context.Context, sig *domain.Signal) error
	// RecordClose persists a resolved signal.
	RecordClose(ctx context.Context, sig *domain.Signal) error
}

// CorrectionSink receives reducer correction notes for observability.
type CorrectionSink interface {
	RecordCorrections(ctx context.Context, notes []domain.CorrectionNote) error
}

// QueryTimeout bounds individual repository calls.
const QueryTimeout = 5 * time.Second
