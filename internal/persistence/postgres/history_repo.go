package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sawpanic/courtside/internal/domain"
	"github.com/sawpanic/courtside/internal/persistence"
)

// historyRow mirrors the historical_games table. Quarter scores are
// stored as flat columns.
type historyRow struct {
	GameID       string    `db:"game_id"`
	HomeTeam     string    `db:"home_team"`
	AwayTeam     string    `db:"away_team"`
	FinalHome    int       `db:"final_home"`
	FinalAway    int       `db:"final_away"`
	Q1Home       int       `db:"q1_home"`
	Q1Away       int       `db:"q1_away"`
	Q2Home       int       `db:"q2_home"`
	Q2Away       int       `db:"q2_away"`
	Q3Home       int       `db:"q3_home"`
	Q3Away       int       `db:"q3_away"`
	Q4Home       int       `db:"q4_home"`
	Q4Away       int       `db:"q4_away"`
	Spread       float64   `db:"spread"`
	MoneyHome    int       `db:"moneyline_home"`
	MoneyAway    int       `db:"moneyline_away"`
	Total        float64   `db:"total"`
	Winner       string    `db:"winner"`
	SpreadResult string    `db:"spread_result"`
	TotalResult  string    `db:"total_result"`
	PlayedAt     time.Time `db:"played_at"`
}

// HistoryRepo reads the finalized game archive from PostgreSQL.
type HistoryRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewHistoryRepo creates a HistoryRepo over db.
func NewHistoryRepo(db *sqlx.DB) *HistoryRepo {
	return &HistoryRepo{db: db, timeout: persistence.QueryTimeout}
}

// List returns historical games ordered by played_at ascending.
func (r *HistoryRepo) List(ctx context.Context, limit int) ([]domain.HistoricalGame, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT game_id, home_team, away_team, final_home, final_away,
			q1_home, q1_away, q2_home, q2_away, q3_home, q3_away, q4_home, q4_away,
			spread, moneyline_home, moneyline_away, total,
			winner, spread_result, total_result, played_at
		FROM historical_games ORDER BY played_at`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	var rows []historyRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list historical games: %w", err)
	}

	out := make([]domain.HistoricalGame, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.HistoricalGame{
			GameID:    row.GameID,
			HomeTeam:  row.HomeTeam,
			AwayTeam:  row.AwayTeam,
			FinalHome: row.FinalHome,
			FinalAway: row.FinalAway,
			Quarters: [4]domain.QuarterScore{
				{Home: row.Q1Home, Away: row.Q1Away},
				{Home: row.Q2Home, Away: row.Q2Away},
				{Home: row.Q3Home, Away: row.Q3Away},
				{Home: row.Q4Home, Away: row.Q4Away},
			},
			OpeningLines: domain.Lines{
				Spread:        row.Spread,
				MoneylineHome: row.MoneyHome,
				MoneylineAway: row.MoneyAway,
				Total:         row.Total,
			},
			Winner:       row.Winner,
			SpreadResult: domain.SpreadResult(row.SpreadResult),
			TotalResult:  domain.TotalResult(row.TotalResult),
			PlayedAt:     row.PlayedAt,
		})
	}
	return out, nil
}
