package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/export"
	"sales-dashboard/internal/middleware"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/server"
	"sales-dashboard/internal/services"
)

const csvProbeTimeout = 30 * time.Second

// newHandler assembles the dashboard routes behind the middleware chain.
func newHandler(cfg *config.Config, dashboard *services.Dashboard, logger *slog.Logger) http.Handler {
	srv := server.NewServer(dashboard, logger)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	return middlewareChain(srv)
}

// probe loads the sales file once so a bad path shows up in the startup
// logs. Pages still load the file on every request.
func probe(ctx context.Context, dashboard *services.Dashboard, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, csvProbeTimeout)
	defer cancel()

	start := time.Now()
	periods, err := dashboard.PeriodOptions(ctx)
	if err != nil {
		logger.Warn("sales data not readable, pages will show an error until it is", "error", err)
		return
	}
	logger.Info("sales data readable",
		"periods", len(periods),
		"duration", time.Since(start),
	)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"csv_file", cfg.Data.CSVFile,
		"addr", cfg.Address(),
	)

	encoder, err := export.NewEncoder(cfg.Export.CacheSize)
	if err != nil {
		logger.Error("failed to create export encoder", "error", err)
		os.Exit(1)
	}

	dashboard := services.NewDashboard(cfg.Data.CSVFile, encoder, logger)
	probe(context.Background(), dashboard, logger)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      newHandler(cfg, dashboard, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook("export-cache-stats", func(ctx context.Context) error {
		logger.Info("export cache at shutdown", "stats", encoder.Stats())
		return nil
	})

	logger.Info("starting graceful server")
	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
