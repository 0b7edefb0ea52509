package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpadapter "mailtrack/internal/adapter/http"
	"mailtrack/internal/adapter/postgres"
	"mailtrack/internal/adapter/session"
	"mailtrack/internal/adapter/smtp"
	"mailtrack/internal/adapter/usecase"
	"mailtrack/internal/config"
	"mailtrack/internal/core/port"
	"mailtrack/internal/db"
	"mailtrack/internal/metrics"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

// runServe loads configuration, optionally runs database migrations,
// wires the adapters and serves HTTP until ctx is cancelled, then shuts the
// server down gracefully.
func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := cfg.Log.New(os.Stdout)
	slog.SetDefault(logger)

	if cfg.Psql.RunMigrations {
		version, err := db.Migrate(cfg.Psql.Addr.String())
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.Info("migrations applied", slog.Uint64("version", uint64(version)))
	}

	pool, err := db.NewPostgresPool(ctx, cfg.Psql)
	if err != nil {
		return fmt.Errorf("database connection: %w", err)
	}
	defer pool.Close()

	var sessions port.SessionStore
	switch cfg.Session.Store {
	case "redis":
		rs, err := session.NewRedisStore(ctx, cfg.Session.RedisURL)
		if err != nil {
			return fmt.Errorf("redis session store: %w", err)
		}
		defer rs.Close()
		sessions = rs
	default:
		sessions = session.NewMemoryStore(10 * time.Minute)
	}

	var (
		m              *metrics.Metrics
		metricsHandler http.Handler
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m = metrics.New(reg)
		metricsHandler = m.Handler()
	}

	if cfg.SMTP.Username == "" || cfg.SMTP.Password == "" {
		logger.Warn("SMTP credentials are not set; every send will fail")
	}

	campaigns := usecase.NewCampaignUseCase(
		postgres.NewCampaignRepository(pool),
		smtp.NewSender(cfg.SMTP, logger),
		usecase.CampaignOptions{
			BaseURL:         cfg.Tracking.BaseURL,
			RecipientPolicy: cfg.Campaign.RecipientPolicy,
			Logger:          logger,
			Metrics:         m,
		},
	)
	auth := usecase.NewAuthUseCase(postgres.NewAdminRepository(pool), sessions, usecase.AuthOptions{
		SessionTTL: cfg.Session.TTL,
		Logger:     logger,
		Metrics:    m,
	})

	created, err := auth.EnsureAdmin(ctx, cfg.Admin.BootstrapUsername, cfg.Admin.BootstrapPassword)
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	if created {
		logger.Info("bootstrap admin created", slog.String("username", cfg.Admin.BootstrapUsername))
	}

	handler, err := httpadapter.NewHandler(campaigns, auth, httpadapter.Options{
		Logger:        logger,
		SessionSecret: cfg.Session.Secret,
		SessionTTL:    cfg.Session.TTL,
		SecureCookie:  cfg.Session.SecureCookie,
		Ping:          pool.Ping,
		Metrics:       metricsHandler,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler.Router(),
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", slog.Int("port", int(cfg.HTTP.Port)), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		logger.Info("server gracefully stopped")
		return nil
	})
	return g.Wait()
}
