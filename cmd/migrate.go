package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"mailtrack/internal/config"
	"mailtrack/internal/db"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cfg, err := config.LoadTools()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger := cfg.Log.New(os.Stderr)

			version, err := db.Migrate(cfg.Psql.Addr.String())
			if err != nil {
				return err
			}
			logger.Info("database is up to date", slog.Uint64("version", uint64(version)))
			return nil
		},
	}
}
