package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SscSPs/microlend_ledger/internal/platform/config"
	"github.com/SscSPs/microlend_ledger/pkg/database"
)

func newMigrateCmd(rt *app) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate up|down",
		Short:     "Apply or roll back database migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(database.MigrateUp), string(database.MigrateDown)},
		RunE: func(cmd *cobra.Command, args []string) error {
			if rt.cfg.StorageDriver != config.StoragePostgres {
				return fmt.Errorf("migrations need the %s storage driver (PGSQL_URL)", config.StoragePostgres)
			}
			return database.RunMigrations(rt.cfg.DatabaseURL, rt.cfg.MigrationsPath, database.MigrationDirection(args[0]))
		},
	}
}
