package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"mailtrack/internal/config"
	"mailtrack/internal/db"
)

func seedCmd() *cobra.Command {
	var recipients int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert a demo campaign with tracking events (no mail is sent)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if recipients < 1 {
				return errors.New("--recipients must be at least 1")
			}
			cfg, err := config.LoadTools()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger := cfg.Log.New(os.Stderr)

			ctx := cmd.Context()
			pool, err := db.NewPostgresPool(ctx, cfg.Psql)
			if err != nil {
				return fmt.Errorf("database connection: %w", err)
			}
			defer pool.Close()

			id, err := db.Seed(ctx, pool, recipients)
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			logger.Info("demo campaign inserted", slog.Int64("campaign_id", id), slog.Int("recipients", recipients))
			return nil
		},
	}
	cmd.Flags().IntVar(&recipients, "recipients", 20, "number of demo recipients")
	return cmd
}
