package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/draftedge/farmline/internal/adapters/http/api"
	app "github.com/draftedge/farmline/internal/app"
	"github.com/draftedge/farmline/pkg/logger"
	"github.com/draftedge/farmline/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 10 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	serviceMetricsRefresh = 10 * time.Second
)

// newServeCmd ranks the configured snapshot, serves the results over
// HTTP, and re-ranks on the configured interval.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve published rankings over HTTP, re-ranking on an interval",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			loggerInstance := logger.Get()

			svc := app.New(
				app.WithLogger(loggerInstance.Named("service")),
				app.WithSeason(cfg.Season),
				app.WithWorkerCount(cfg.WorkerCount),
				app.WithSourceThresholds(cfg.PitchSampleThreshold, cfg.GameLogDayThreshold),
				app.WithMinGames(cfg.MinGames),
				app.WithMinCohortSize(cfg.MinCohortSize),
				app.WithTrendStrategy(cfg.TrendStrategy),
				app.WithSnapshotPath(cfg.SnapshotPath),
				app.WithRunInterval(cfg.RunInterval),
			)
			if err := svc.Start(ctx); err != nil {
				return err
			}
			defer svc.Stop()

			go startServiceMetricsUpdater(ctx, svc)

			// HTTP mux and routes.
			mux := http.NewServeMux()
			api.NewServer(svc, svc, cfg.MaxListLimit).Register(ctx, mux)

			srv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           mux,
				ReadTimeout:       readTimeout,
				WriteTimeout:      writeTimeout,
				IdleTimeout:       idleTimeout,
				ReadHeaderTimeout: readHeaderTimeout,
			}

			go func() {
				loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
				}
			}()

			// Wait for shutdown signal
			<-ctx.Done()
			loggerInstance.Info(ctx, "shutting down server...")

			// Graceful shutdown with timeout
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
			}

			loggerInstance.Info(ctx, "server stopped")
			return nil
		},
	}
}

// startServiceMetricsUpdater refreshes gauge metrics that describe the
// process rather than a single run.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsRefresh)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.UpdateRankingsStored(svc.Count(ctx))
			metrics.UpdateWorkerCount(cfg.WorkerCount)
		}
	}
}
