package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"loctool/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "loctool",
		Short:        "XLIFF localization resource tool",
		Long:         "Reads, merges, splits, converts and checks XLIFF 1.2 and 2.0 files, and keeps their resources in PostgreSQL.",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(convertCmd())
	rootCmd.AddCommand(mergeCmd())
	rootCmd.AddCommand(splitCmd())
	rootCmd.AddCommand(selectCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(dbCmd())

	return rootCmd
}

// setLogLevel applies a zerolog level name, keeping info for unknown names.
func setLogLevel(name string) {
	level, err := zerolog.ParseLevel(name)
	if err != nil || name == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Warn().Msg("Received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

// loadConfig reads the configuration and applies its log level.
func loadConfig() *config.Config {
	cfg := config.Load()
	setLogLevel(cfg.LogLevel)
	return cfg
}

// connectDB opens and pings the PostgreSQL pool.
func connectDB(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	pgPool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect PostgreSQL: %w", err)
	}

	if err := pgPool.Ping(ctx); err != nil {
		pgPool.Close()
		return nil, fmt.Errorf("ping PostgreSQL: %w", err)
	}
	log.Info().Msg("Connected to PostgreSQL")

	return pgPool, nil
}
