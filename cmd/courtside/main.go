package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

const (
	appName = "Courtside"
	version = "v1.4.0"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	if term.IsTerminal(int(os.Stderr.Fd())) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	rootCmd := &cobra.Command{
		Use:     "courtside",
		Short:   "Live NBA betting signal engine",
		Version: version,
		Long: `Courtside evaluates declarative betting strategies against live NBA
game state. It ingests partial score updates, maintains authoritative
game snapshots, fires entry/close triggers and tracks signal outcomes.`,
	}
	// Accept max_games as well as max-games and so on.
	rootCmd.SetGlobalNormalizationFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level override (trace|debug|info|warn|error)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the live evaluation service",
		Long:  "Starts the ingest HTTP API, optional score feed consumer and the strategy evaluation loop",
		RunE:  runServe,
	}
	serveCmd.Flags().String("strategies", "", "YAML strategy file (overrides record store)")

	backtestCmd := &cobra.Command{
		Use:   "backtest",
		Short: "Replay strategies over a historical game corpus",
		Long:  "Synthesizes quarter-boundary contexts for finalized games and drives them through the live evaluator",
		RunE:  runBacktest,
	}
	backtestCmd.Flags().String("strategies", "", "YAML strategy file (overrides record store)")
	backtestCmd.Flags().String("corpus", "", "JSON corpus file (overrides record store)")
	backtestCmd.Flags().Int("max-games", 0, "Cap the number of games analyzed (0 = whole corpus)")
	backtestCmd.Flags().Duration("budget", 0, "Wall-clock cutoff; partial results on expiry (0 = none)")
	backtestCmd.Flags().Int("workers", 0, "Concurrent game replays (0 = config default)")
	backtestCmd.Flags().Float64("stake", 0, "Flat stake per bet for ROI accounting (0 = config default)")
	backtestCmd.Flags().String("output", "", "Output directory for the JSON result artifact")

	fieldsCmd := &cobra.Command{
		Use:   "fields",
		Short: "List the condition field vocabulary",
		RunE:  runFields,
	}

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(backtestCmd)
	rootCmd.AddCommand(fieldsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setLogLevel applies the configured level, with the flag taking
// precedence over the config file.
func setLogLevel(configured, flag string) {
	level := configured
	if flag != "" {
		level = flag
	}
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
}
