package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sawpanic/courtside/internal/backtest"
	"github.com/sawpanic/courtside/internal/config"
	"github.com/sawpanic/courtside/internal/domain"
	"github.com/sawpanic/courtside/internal/persistence"
	"github.com/sawpanic/courtside/internal/persistence/postgres"
)

// runBacktest replays strategies over a historical corpus.
func runBacktest(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	logLevel, _ := cmd.Flags().GetString("log-level")
	strategyFile, _ := cmd.Flags().GetString("strategies")
	corpusFile, _ := cmd.Flags().GetString("corpus")
	maxGames, _ := cmd.Flags().GetInt("max-games")
	budget, _ := cmd.Flags().GetDuration("budget")
	workers, _ := cmd.Flags().GetInt("workers")
	stake, _ := cmd.Flags().GetFloat64("stake")
	output, _ := cmd.Flags().GetString("output")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	setLogLevel(cfg.LogLevel, logLevel)

	btCfg := &backtest.Config{
		Workers:   cfg.Backtest.Workers,
		MaxGames:  cfg.Backtest.MaxGames,
		Budget:    cfg.Backtest.Budget.Std(),
		Stake:     cfg.Backtest.Stake,
		OutputDir: cfg.Backtest.OutputDir,
	}
	if maxGames > 0 {
		btCfg.MaxGames = maxGames
	}
	if budget > 0 {
		btCfg.Budget = budget
	}
	if workers > 0 {
		btCfg.Workers = workers
	}
	if stake > 0 {
		btCfg.Stake = stake
	}
	if output != "" {
		btCfg.OutputDir = output
	}

	ctx := context.Background()

	strategies, err := loadStrategies(ctx, cfg, strategyFile)
	if err != nil {
		return err
	}
	if len(strategies) == 0 {
		return fmt.Errorf("no strategies to backtest")
	}

	corpus, err := loadCorpus(ctx, cfg, corpusFile)
	if err != nil {
		return err
	}
	if len(corpus) == 0 {
		return fmt.Errorf("empty historical corpus")
	}

	log.Info().
		Int("strategies", len(strategies)).
		Int("games", len(corpus)).
		Int("workers", btCfg.Workers).
		Dur("budget", btCfg.Budget).
		Msg("starting backtest")

	runner := backtest.NewRunner(btCfg)
	result, err := runner.Run(ctx, strategies, corpus)
	if err != nil {
		return fmt.Errorf("backtest failed: %w", err)
	}

	printSummaries(result)

	if btCfg.OutputDir != "" {
		absDir, err := filepath.Abs(btCfg.OutputDir)
		if err != nil {
			return fmt.Errorf("resolve output dir: %w", err)
		}
		path, err := backtest.NewWriter(absDir).WriteResult(result)
		if err != nil {
			return err
		}
		fmt.Printf("\nResult artifact: %s\n", path)
	}
	return nil
}

func loadStrategies(ctx context.Context, cfg *config.Config, strategyFile string) ([]domain.Strategy, error) {
	if strategyFile != "" {
		return persistence.LoadStrategies(strategyFile)
	}
	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("no strategy source: pass --strategies or configure postgres")
	}
	db, err := postgres.Connect(cfg.Postgres.DSN)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return postgres.NewStrategyRepo(db).ListActive(ctx)
}

func loadCorpus(ctx context.Context, cfg *config.Config, corpusFile string) ([]domain.HistoricalGame, error) {
	if corpusFile != "" {
		return persistence.LoadCorpus(corpusFile)
	}
	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("no corpus source: pass --corpus or configure postgres")
	}
	db, err := postgres.Connect(cfg.Postgres.DSN)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return postgres.NewHistoryRepo(db).List(ctx, 0)
}

func printSummaries(result *backtest.Result) {
	fmt.Printf("Backtest: %d/%d games processed (%d skipped)", result.GamesProcessed, result.GamesTotal, result.GamesSkipped)
	if result.Partial {
		fmt.Printf(" [PARTIAL]")
	}
	fmt.Println()
	for _, s := range result.Summaries {
		fmt.Printf("  %-28s bets=%-4d W/L/P=%d/%d/%d winRate=%.1f%% roi=%+.1f%%\n",
			s.StrategyName, s.PotentialBets, s.Wins, s.Losses, s.Pushes,
			s.WinRate*100, s.ROI*100)
	}
}
