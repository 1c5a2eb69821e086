package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/draftedge/farmline/internal/adapters/snapshot"
	app "github.com/draftedge/farmline/internal/app"
	"github.com/draftedge/farmline/pkg/logger"
)

// newRankCmd runs one batch over a snapshot file and writes the ranked
// result as JSON.
func newRankCmd() *cobra.Command {
	var (
		snapshotPath string
		outputPath   string
	)

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Run one ranking batch over a snapshot file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if snapshotPath == "" {
				snapshotPath = cfg.SnapshotPath
			}
			if outputPath == "" {
				outputPath = cfg.OutputPath
			}

			snap, err := snapshot.Load(ctx, snapshotPath)
			if err != nil {
				return err
			}

			svc := newService(logger.Get().Named("rank"))
			if err := svc.Start(ctx); err != nil {
				return err
			}
			defer svc.Stop()

			result, err := svc.Run(ctx, snap)
			if err != nil {
				return err
			}

			if outputPath == "" {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			if err := snapshot.Write(ctx, outputPath, result); err != nil {
				return err
			}
			logger.Get().Info(ctx, "rankings written",
				logger.String("path", outputPath),
				logger.String("run_id", result.Report.RunID),
				logger.Int("prospects", result.Report.Prospects),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "input snapshot JSON path (default from config)")
	cmd.Flags().StringVar(&outputPath, "out", "", "result JSON path; empty writes to stdout")
	return cmd
}

// newService builds a service from the loaded config.
func newService(l logger.Logger) *app.Service {
	return app.New(
		app.WithLogger(l),
		app.WithSeason(cfg.Season),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithSourceThresholds(cfg.PitchSampleThreshold, cfg.GameLogDayThreshold),
		app.WithMinGames(cfg.MinGames),
		app.WithMinCohortSize(cfg.MinCohortSize),
		app.WithTrendStrategy(cfg.TrendStrategy),
	)
}
