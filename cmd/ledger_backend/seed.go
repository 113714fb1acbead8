package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/SscSPs/microlend_ledger/internal/core/services"
	"github.com/SscSPs/microlend_ledger/internal/platform/config"
)

func newSeedCmd(rt *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Install the starting chart of accounts into an empty registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			if rt.cfg.StorageDriver != config.StoragePostgres {
				return fmt.Errorf("seeding needs the %s storage driver; the memory store is seeded with SEED_DEFAULT_CHART", config.StoragePostgres)
			}

			accounts, err := rt.startingChart()
			if err != nil {
				return err
			}

			repos, closeRepos, err := rt.openRepositories(cmd.Context())
			if err != nil {
				return err
			}
			defer closeRepos()

			container := services.NewServiceContainer(rt.cfg, repos, nil)
			created, err := container.Account.SeedChart(cmd.Context(), accounts, systemActor)
			if err != nil {
				return err
			}
			rt.logger.Info("Chart of accounts seeded", slog.Int("created", created), slog.Int("in_chart", len(accounts)))
			return nil
		},
	}
}
