package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/pitwall/internal/database"
	"github.com/yourusername/pitwall/internal/logger"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status|version|reset]",
		Short:     "Manage the prediction database schema",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{database.MigrateUp, database.MigrateDown, database.MigrateStatus, database.MigrateVersion, database.MigrateReset},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cfg.Database.Enabled {
				return fmt.Errorf("database is disabled; set database.enabled to run migrations")
			}

			db, err := database.NewDB(ctx, &cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			table := cfg.Database.MigrationsTable
			before, err := database.SchemaVersion(ctx, db, table, appLog)
			if err != nil {
				return err
			}
			after, err := database.Migrate(ctx, db, args[0], table, appLog)
			if err != nil {
				return err
			}
			if after != before {
				logger.NewAuditLogger(appLog).LogMigration(args[0], before, after)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema version: %d\n", after)
			return nil
		},
	}
}
