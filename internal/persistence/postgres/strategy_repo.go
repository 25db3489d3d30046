// Package postgres implements the persistence interfaces on PostgreSQL
// via sqlx.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sawpanic/courtside/internal/domain"
	"github.com/sawpanic/courtside/internal/persistence"
)

// strategyRow mirrors the strategies table.
type strategyRow struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	TriggerMode string `db:"trigger_mode"`
	BetType     string `db:"bet_type"`
	IsActive    bool   `db:"is_active"`
}

// triggerRow mirrors the triggers table; conditions is the string-encoded
// JSON list written by the web layer.
type triggerRow struct {
	ID         string `db:"id"`
	StrategyID string `db:"strategy_id"`
	Name       string `db:"name"`
	Conditions string `db:"conditions"`
	Position   int    `db:"position"`
	Kind       string `db:"kind"`
	Odds       int    `db:"odds"`
}

// StrategyRepo loads strategies from PostgreSQL.
type StrategyRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewStrategyRepo creates a StrategyRepo over db.
func NewStrategyRepo(db *sqlx.DB) *StrategyRepo {
	return &StrategyRepo{db: db, timeout: persistence.QueryTimeout}
}

// ListActive returns all active strategies with their triggers in order.
func (r *StrategyRepo) ListActive(ctx context.Context) ([]domain.Strategy, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var rows []strategyRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT id, name, trigger_mode, bet_type, is_active
		 FROM strategies WHERE is_active = true ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list strategies: %w", err)
	}

	out := make([]domain.Strategy, 0, len(rows))
	for _, row := range rows {
		s, err := r.hydrate(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, nil
}

// Get returns one strategy by id, or domain.ErrNotFound.
func (r *StrategyRepo) Get(ctx context.Context, id string) (*domain.Strategy, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var row strategyRow
	err := r.db.GetContext(ctx, &row,
		`SELECT id, name, trigger_mode, bet_type, is_active
		 FROM strategies WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get strategy %s: %w", id, err)
	}
	return r.hydrate(ctx, row)
}

func (r *StrategyRepo) hydrate(ctx context.Context, row strategyRow) (*domain.Strategy, error) {
	var trigRows []triggerRow
	err := r.db.SelectContext(ctx, &trigRows,
		`SELECT id, strategy_id, name, conditions, position, kind, odds
		 FROM triggers WHERE strategy_id = $1 ORDER BY position`, row.ID)
	if err != nil {
		return nil, fmt.Errorf("load triggers for %s: %w", row.ID, err)
	}

	s := &domain.Strategy{
		ID:          row.ID,
		Name:        row.Name,
		TriggerMode: domain.TriggerMode(row.TriggerMode),
		BetType:     domain.BetType(row.BetType),
		IsActive:    row.IsActive,
		Triggers:    make([]domain.Trigger, 0, len(trigRows)),
	}
	for _, tr := range trigRows {
		conds, err := persistence.ParseConditions(tr.Conditions)
		if err != nil {
			return nil, fmt.Errorf("trigger %s: %w", tr.ID, err)
		}
		trigger := domain.Trigger{
			ID:         tr.ID,
			StrategyID: tr.StrategyID,
			Name:       tr.Name,
			Conditions: conds,
			Order:      tr.Position,
			Kind:       domain.TriggerKind(tr.Kind),
			Odds:       tr.Odds,
		}
		if err := persistence.ValidateTrigger(&trigger); err != nil {
			return nil, err
		}
		s.Triggers = append(s.Triggers, trigger)
	}
	return s, nil
}
