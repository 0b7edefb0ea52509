package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"mailtrack/internal/adapter/postgres"
	"mailtrack/internal/adapter/session"
	"mailtrack/internal/adapter/usecase"
	"mailtrack/internal/config"
	"mailtrack/internal/db"
)

const adminPasswordEnv = "MAILTRACK_ADMIN_PASSWORD"

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}
	cmd.AddCommand(adminCreateCmd())
	return cmd
}

func adminCreateCmd() *cobra.Command {
	var username, plain string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account",
		Long: "Create an admin account. The password is taken from --password, then " +
			adminPasswordEnv + ", and is otherwise prompted for.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadTools()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger := cfg.Log.New(os.Stderr)

			if plain == "" {
				plain = os.Getenv(adminPasswordEnv)
			}
			if plain == "" {
				if plain, err = promptPassword(cmd.ErrOrStderr()); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			pool, err := db.NewPostgresPool(ctx, cfg.Psql)
			if err != nil {
				return fmt.Errorf("database connection: %w", err)
			}
			defer pool.Close()

			// sessions are never created here
			auth := usecase.NewAuthUseCase(postgres.NewAdminRepository(pool), session.NewMemoryStore(0), usecase.AuthOptions{
				Logger: logger,
			})
			a, err := auth.CreateAdmin(ctx, username, plain)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %q created (id %d)\n", a.Username, a.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "admin username")
	cmd.Flags().StringVar(&plain, "password", "", "admin password (visible in shell history, prefer the prompt)")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

// promptPassword reads the password twice without echo. When stdin is not
// a terminal it reads a single line instead.
func promptPassword(out io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(out, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	fmt.Fprint(out, "Repeat password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}
