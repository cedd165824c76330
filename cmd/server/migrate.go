package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"carrest/internal/config"
	"carrest/internal/infrastructure/storage/postgres"
	"carrest/pkg/logger"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Run the embedded goose migrations against database.url.

Subcommands:
  up      - Apply pending migrations
  down    - Roll back the last migration
  status  - Show migration status`,
}

func newMigrateCmd(use, short, command string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd, command)
		},
	}
}

func init() {
	migrateCmd.AddCommand(
		newMigrateCmd("up", "Apply pending migrations", postgres.MigrateUp),
		newMigrateCmd("down", "Roll back the last migration", postgres.MigrateDown),
		newMigrateCmd("status", "Show migration status", postgres.MigrateStatus),
	)
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, command string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("migrations need the %s driver, configured driver is %s", config.DriverPostgres, cfg.Database.Driver)
	}

	ctx := logger.WithLogger(cmd.Context(), log)

	pool, err := openPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	return postgres.Migrate(ctx, pool, command)
}
