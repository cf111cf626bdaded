package commands

import (
	"fmt"

	"github.com/SscSPs/posting_engine/internal/platform/config"
	"github.com/SscSPs/posting_engine/pkg/database"
	"github.com/spf13/cobra"
)

func newMigrateCommand(e *env) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back the PostgreSQL schema",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(database.MigrateUp), string(database.MigrateDown)},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := e.loadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if cfg.StoreDriver != config.StoreDriverPostgres {
				return fmt.Errorf("migrations need STORE_DRIVER=%s, got %s", config.StoreDriverPostgres, cfg.StoreDriver)
			}
			return database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, database.MigrateDirection(args[0]), e.logger)
		},
	}
}
