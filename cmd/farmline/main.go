// Command farmline ranks minor-league prospects from performance
// snapshots and serves the results over HTTP.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/draftedge/farmline/internal/config"
	"github.com/draftedge/farmline/pkg/logger"
)

var cfg *config.Config

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "farmline",
		Short:         "Composite prospect ranking engine",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			cfg = loaded

			// Apply configured log level (fallback to info on invalid input)
			if err := logger.SetLevelString(cfg.LogLevel); err != nil {
				logger.Get().Warn(cmd.Context(), "invalid log_level; falling back to info",
					logger.String("log_level", cfg.LogLevel), logger.Error(err))
				_ = logger.SetLevelString("info")
			}
			return nil
		},
	}

	root.AddCommand(newRankCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newSeedCmd())
	return root
}
