package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/conciliacao/internal/config"
	"github.com/JonMunkholm/conciliacao/internal/core"
	_ "github.com/JonMunkholm/conciliacao/internal/core/tables" // Register all tables
	"github.com/JonMunkholm/conciliacao/internal/database"
	"github.com/JonMunkholm/conciliacao/internal/logging"
	"github.com/JonMunkholm/conciliacao/internal/metrics"
	"github.com/JonMunkholm/conciliacao/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	logger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"schema", cfg.Database.Schema,
		"db_max_conns", cfg.Database.MaxConns,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"conciliacao", cfg.Public.ConciliacaoEnabled(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.Connect(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	service := core.NewService(pool, core.ServiceConfig{
		Schema:        cfg.Database.Schema,
		QueryTimeout:  cfg.Database.QueryTimeout,
		MaxConcurrent: cfg.Database.MaxConcurrentQueries,
		MaxWait:       cfg.Database.QueryWait,
	})

	metrics.RegisteredTables.Set(float64(core.TableCount()))
	metrics.SetFlag(metrics.ConciliacaoEnabled, cfg.Public.ConciliacaoEnabled())

	logger.Info("tables registered", "count", core.TableCount(), "sealed", core.Sealed())
	for _, def := range core.All() {
		logger.Debug("table", "concept", def.Info.Key, "table", def.Info.Table, "columns", len(def.Info.Columns))
	}

	// Report drift at startup without refusing to serve.
	if report, err := service.CheckSchema(ctx); err != nil {
		logger.Warn("startup schema check failed", "error", err)
	} else {
		metrics.RecordSchemaCheck(report.OK, nil)
		if !report.OK {
			logger.Warn("finance tables differ from registry", "report_id", report.ID)
		}
	}

	server := web.NewServer(service, cfg)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server starting", "addr", cfg.Server.Addr())
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if status := service.QueryStatus(); status.Active > 0 {
			logger.Info("waiting for queries to complete", "active", status.Active)
			if err := service.WaitForQueries(shutdownCtx); err != nil {
				logger.Warn("queries did not complete in time", "error", err)
			}
		}

		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
