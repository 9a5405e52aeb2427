package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UdayKumar-git-hub/ipl-auction/internal/api"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/catalog"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/clock"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/config"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/feed"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/health"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/leader"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/ledger"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/store/postgres"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/telemetry"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	if err := run(*configPath); err != nil {
		slog.Error("fatal error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(configPath string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup telemetry.
	tp, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		slog.Warn("telemetry setup failed, continuing without OTEL export", slog.Any("error", err))
		tp = telemetry.NewNopProvider()
	}
	defer func() {
		if shutdownErr := tp.Shutdown(context.Background()); shutdownErr != nil {
			slog.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	logger := tp.Logger
	clk := clock.Real{}

	// Open the store and run migrations.
	repos, err := postgres.Open(ctx, cfg.Database, clk)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer repos.Closer.Close()

	logger.InfoContext(ctx, "connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("dbname", cfg.Database.DBName),
	)

	// Open the change feed publisher using the configured driver.
	publisher, err := feed.Open(cfg.Feed, logger)
	if err != nil {
		return fmt.Errorf("opening feed publisher (driver=%s): %w", cfg.Feed.Driver, err)
	}
	defer func() {
		if closeErr := publisher.Close(); closeErr != nil {
			logger.Error("feed publisher close error", slog.Any("error", closeErr))
		}
	}()

	// Initialize services.
	ledgerSvc := ledger.NewService(repos.Ledger, clk, logger, tp.TracerProvider)
	catalogSvc := catalog.NewService(repos, logger, tp.TracerProvider)

	// Setup health checks.
	healthHandler := health.NewHandler(clk, version,
		health.Checker{
			Name:  "database",
			Check: repos.Ping,
		},
	)

	// The API serves on every replica.
	router := api.NewRouter(api.RouterDeps{
		Catalog: catalogSvc,
		Ledger:  ledgerSvc,
		Health:  healthHandler,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.InfoContext(ctx, "starting http server", slog.Int("port", cfg.Server.Port))
		if listenErr := httpServer.ListenAndServe(); listenErr != nil && listenErr != http.ErrServerClosed {
			logger.ErrorContext(ctx, "http server error", slog.Any("error", listenErr))
		}
	}()

	healthHandler.SetReady(true)
	logger.InfoContext(ctx, "auctiond is running", slog.String("version", version))

	relay := feed.NewRelay(repos.Changes, publisher, logger, cfg.Feed.PollInterval, cfg.Feed.BatchSize)

	if cfg.LeaderElection.Enabled {
		// The relay must run on exactly one replica; contend for the lease
		// while the API keeps serving. Losing the lease shuts the process
		// down so the restarted replica re-contends from a clean slate.
		logger.InfoContext(ctx, "leader election enabled, waiting for leadership...")

		if leaderErr := leader.Run(ctx, cfg.LeaderElection, logger, relay.Run, func() {
			logger.Info("lost leadership, shutting down...")
			cancel()
		}); leaderErr != nil {
			return fmt.Errorf("leader election: %w", leaderErr)
		}
	} else {
		go relay.Run(ctx)

		// Wait for shutdown signal.
		<-ctx.Done()
	}

	logger.Info("shutting down...")
	healthHandler.SetReady(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", slog.Any("error", err))
	}

	logger.Info("shutdown complete")
	return nil
}
