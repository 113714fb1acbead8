package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SscSPs/microlend_ledger/internal/core/chart"
	"github.com/SscSPs/microlend_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/microlend_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/microlend_ledger/internal/platform/config"
	"github.com/SscSPs/microlend_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/microlend_ledger/internal/repositories/memory"
	"github.com/SscSPs/microlend_ledger/pkg/database"
)

// systemActor is recorded on rows the process writes on its own behalf.
const systemActor = "system"

// app carries what every subcommand needs once config is loaded.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	rt := &app{}

	root := &cobra.Command{
		Use:           "ledger_backend",
		Short:         "Double-entry ledger for the microlending portal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			rt.cfg = cfg
			rt.logger = newLogger(cfg.LogLevel)
			slog.SetDefault(rt.logger)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.serve(cmd.Context())
		},
	}

	root.AddCommand(
		newServeCmd(rt),
		newMigrateCmd(rt),
		newSeedCmd(rt),
		newTokenCmd(rt),
	)
	return root
}

// newLogger builds the JSON logger; unknown levels fall back to info.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

// openRepositories connects the configured storage driver. The returned
// closer releases the pool, if any.
func (rt *app) openRepositories(ctx context.Context) (portsrepo.RepositoryProvider, func(), error) {
	if rt.cfg.StorageDriver == config.StorageMemory {
		rt.logger.Warn("Using in-memory storage; data is lost on restart")
		return memory.NewStore().Provider(), func() {}, nil
	}

	pool, err := database.NewPgxPool(ctx, rt.cfg.DatabaseURL, rt.cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	return pgsql.NewRepositoryProvider(pool), func() { database.ClosePgxPool(pool) }, nil
}

// startingChart returns the accounts seeding installs: CHART_FILE when set,
// the built-in chart otherwise.
func (rt *app) startingChart() ([]domain.AccountInput, error) {
	if rt.cfg.ChartFile == "" {
		return chart.Default(), nil
	}
	accounts, err := chart.LoadFile(rt.cfg.ChartFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load chart file %s: %w", rt.cfg.ChartFile, err)
	}
	return accounts, nil
}
