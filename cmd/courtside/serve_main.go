package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sawpanic/courtside/internal/app"
	"github.com/sawpanic/courtside/internal/config"
	"github.com/sawpanic/courtside/internal/engine"
	"github.com/sawpanic/courtside/internal/gamestate"
	httpapi "github.com/sawpanic/courtside/internal/interfaces/http"
	"github.com/sawpanic/courtside/internal/metrics"
	"github.com/sawpanic/courtside/internal/notify"
	"github.com/sawpanic/courtside/internal/persistence"
	"github.com/sawpanic/courtside/internal/persistence/postgres"
	"github.com/sawpanic/courtside/internal/stream"
)

// runServe wires and runs the live evaluation service.
func runServe(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	logLevel, _ := cmd.Flags().GetString("log-level")
	strategyFile, _ := cmd.Flags().GetString("strategies")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	setLogLevel(cfg.LogLevel, logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Game store: Redis when configured, in-memory otherwise.
	var games gamestate.GameStore
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		defer client.Close()
		games = gamestate.NewRedisGameStore(client, cfg.Redis.TTL.Std())
		log.Info().Str("addr", cfg.Redis.Addr).Msg("using redis game store")
	} else {
		games = gamestate.NewMemoryGameStore()
	}

	// Record store: strategies and the signal ledger.
	var (
		strategyRepo persistence.StrategyRepo
		ledger       persistence.SignalLedger
	)
	if cfg.Postgres.DSN != "" {
		db, err := postgres.Connect(cfg.Postgres.DSN)
		if err != nil {
			return err
		}
		defer db.Close()
		strategyRepo = postgres.NewStrategyRepo(db)
		ledger = postgres.NewLedgerRepo(db)
	}

	var notifier notify.Notifier
	if cfg.Notifier.Enabled {
		notifier = notify.NewWebhookNotifier(notify.WebhookConfig{
			URL:     cfg.Notifier.URL,
			Timeout: cfg.Notifier.Timeout.Std(),
			RPS:     cfg.Notifier.RPS,
			Burst:   cfg.Notifier.Burst,
		})
	}

	reg := metrics.NewRegistry()
	evaluator := engine.NewEvaluator(engine.NewRegistry(engine.NewMemorySignalStore()))
	service := app.NewService(app.Deps{
		Reducer:      gamestate.NewReducer(games),
		Games:        games,
		Evaluator:    evaluator,
		Notifier:     notifier,
		Ledger:       ledger,
		Metrics:      reg,
		StrategyRepo: strategyRepo,
	})

	// Strategy definitions: file overrides the record store.
	if strategyFile != "" {
		strategies, err := persistence.LoadStrategies(strategyFile)
		if err != nil {
			return err
		}
		service.SetStrategies(strategies)
		log.Info().Int("count", len(strategies)).Str("file", strategyFile).Msg("strategies loaded")
	} else if err := service.RefreshStrategies(ctx); err != nil {
		return fmt.Errorf("load strategies: %w", err)
	}

	handlers := httpapi.NewHandlers(service, service, service, reg, version)
	server, err := httpapi.NewServer(httpapi.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout.Std(),
		WriteTimeout:   cfg.Server.WriteTimeout.Std(),
		IdleTimeout:    cfg.Server.IdleTimeout.Std(),
		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
	}, handlers)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	// Optional push feed alongside the ingest API.
	if cfg.Feed.Enabled {
		feed, err := stream.NewFeedClient(stream.DefaultFeedConfig(cfg.Feed.URL))
		if err != nil {
			return err
		}
		go func() {
			if err := feed.Run(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("feed client stopped")
			}
		}()
		go service.ConsumeFeed(ctx, feed.Deltas())
	}

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
