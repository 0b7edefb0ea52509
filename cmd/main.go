package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// main is the entry point of mailtrack. Without a subcommand it runs the
// web server; migrate, admin and seed are maintenance commands that share
// the same environment configuration.
func main() {
	// a missing .env is fine; the environment may be set by the supervisor
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root := &cobra.Command{
		Use:           "mailtrack",
		Short:         "Send HTML mail campaigns and track who opened them",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
	root.AddCommand(serveCmd(), migrateCmd(), adminCmd(), seedCmd())

	if err := root.ExecuteContext(ctx); err != nil {
		slog.Error("mailtrack failed", slog.Any("error", err))
		cancel()
		os.Exit(1)
	}
}
