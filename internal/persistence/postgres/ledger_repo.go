package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sawpanic/courtside/internal/domain"
	"github.com/sawpanic/courtside/internal/persistence"
)

// LedgerRepo records signal lifecycle transitions in PostgreSQL.
type LedgerRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewLedgerRepo creates a LedgerRepo over db.
func NewLedgerRepo(db *sqlx.DB) *LedgerRepo {
	return &LedgerRepo{db: db, timeout: persistence.QueryTimeout}
}

// RecordOpen persists a newly opened signal.
func (r *LedgerRepo) RecordOpen(ctx context.Context, sig *domain.Signal) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO signals
			(id, strategy_id, game_id, status, entry_value, entry_time, leading_team_home, entry_odds)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO NOTHING`,
		sig.ID, sig.StrategyID, sig.GameID, sig.Status,
		sig.EntryValue, sig.EntryTime, sig.LeadingTeamHome, sig.EntryOdds)
	if err != nil {
		return fmt.Errorf("record signal open %s: %w", sig.ID, err)
	}
	return nil
}

// RecordClose persists a resolved signal.
func (r *LedgerRepo) RecordClose(ctx context.Context, sig *domain.Signal) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx,
		`UPDATE signals SET status = $2, close_value = $3, close_time = $4 WHERE id = $1`,
		sig.ID, sig.Status, sig.CloseValue, sig.CloseTime)
	if err != nil {
		return fmt.Errorf("record signal close %s: %w", sig.ID, err)
	}
	return nil
}

// RecordCorrections persists reducer correction notes for observability.
func (r *LedgerRepo) RecordCorrections(ctx context.Context, notes []domain.CorrectionNote) error {
	if len(notes) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	for _, note := range notes {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO corrections (id, game_id, field, inbound, retained, reason, ts)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			note.ID, note.GameID, note.Field, note.Inbound, note.Retained, note.Reason, note.Timestamp)
		if err != nil {
			return fmt.Errorf("record correction %s: %w", note.ID, err)
		}
	}
	return nil
}
