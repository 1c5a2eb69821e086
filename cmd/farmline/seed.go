package main

import (
	"github.com/spf13/cobra"

	"github.com/draftedge/farmline/internal/adapters/snapshot"
	"github.com/draftedge/farmline/internal/fixture"
	"github.com/draftedge/farmline/pkg/logger"
)

// newSeedCmd writes a deterministic synthetic snapshot for demos and
// load tests.
func newSeedCmd() *cobra.Command {
	var (
		outputPath string
		prospects  int
		seed       int64
		season     int
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate a synthetic snapshot file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if season == 0 {
				season = cfg.Season
			}

			snap := fixture.NewGenerator(
				fixture.WithSeed(seed),
				fixture.WithProspectCount(prospects),
				fixture.WithSeason(season),
			).Snapshot()

			if err := snapshot.Write(ctx, outputPath, snap); err != nil {
				return err
			}
			logger.Get().Info(ctx, "snapshot written",
				logger.String("path", outputPath),
				logger.Int("prospects", len(snap.Prospects)),
				logger.Int("games", len(snap.Games)),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&outputPath, "out", "snapshot.json", "output snapshot path")
	cmd.Flags().IntVar(&prospects, "prospects", 400, "number of prospects to generate")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed; same seed produces the same snapshot")
	cmd.Flags().IntVar(&season, "season", 0, "season to generate (default from config)")
	return cmd
}
