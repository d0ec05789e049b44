package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/garnizeh/hersafety/api"
	dbfs "github.com/garnizeh/hersafety/db"
	"github.com/garnizeh/hersafety/internal/auth"
	"github.com/garnizeh/hersafety/internal/config"
	"github.com/garnizeh/hersafety/internal/db"
	"github.com/garnizeh/hersafety/internal/emergency"
	"github.com/garnizeh/hersafety/internal/incident"
	"github.com/garnizeh/hersafety/internal/repository/sqlrepo"
	"github.com/garnizeh/hersafety/internal/tracking"
	"github.com/garnizeh/hersafety/pkg/sms"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	api.SetLogger(logger)

	logger.Info("starting hersafety server", "version", version, "build_time", buildTime)

	ctx := context.Background()

	// Open database connection
	database, err := db.New(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("error closing db", "error", err)
		}
	}()

	if cfg.MigrateOnStart {
		if err := db.Migrate(ctx, database, dbfs.Migrations, dbfs.SeedFiles); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	repo := sqlrepo.New(database, logger)

	provider, err := newSMSProvider(ctx, cfg.SMS, logger)
	if err != nil {
		return err
	}

	authSvc := auth.NewService(repo, cfg.JWTSecret, cfg.TokenDuration, logger)
	if err := authSvc.EnsureAdmin(ctx, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	incidentSvc := incident.New(repo, repo, repo, logger)
	incidentSvc.SetTransitionPolicy(incident.PolicyFor(cfg.Incidents.StrictTransitions))

	handler, err := api.SetupRoutes(cfg, version, buildTime, api.Services{
		Auth:      authSvc,
		Incidents: incidentSvc,
		Tracking:  tracking.New(repo, repo, repo, incidentSvc.Policy(), logger),
		Emergency: emergency.New(repo, repo, repo, provider, cfg.SMS.From, logger),
		DB:        database.GetConn(),
	})
	if err != nil {
		return fmt.Errorf("setup routes: %w", err)
	}

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case sig := <-quit:
		logger.Info("shutting down server", "signal", sig.String())
	}

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	logger.Info("server exited")
	return nil
}

func newSMSProvider(ctx context.Context, cfg config.SMSConfig, logger *slog.Logger) (sms.Provider, error) {
	switch cfg.Provider {
	case "twilio":
		return sms.NewTwilioProvider(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.From), nil
	case "sns":
		p, err := sms.NewSNSProvider(ctx, cfg.SNS.Region)
		if err != nil {
			return nil, fmt.Errorf("sns provider: %w", err)
		}
		return p, nil
	default:
		return sms.NewLogProvider(logger), nil
	}
}
