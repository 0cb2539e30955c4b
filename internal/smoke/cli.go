package smoke

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/fitcheck/pkg/logger"
)

const defaultRunTimeout = 2 * time.Minute

// Command returns the smoke command.
func Command() *cobra.Command {
	var (
		cfg        = Config{Workers: runtime.NumCPU()}
		runTimeout time.Duration
		logFormat  string
	)

	cmd := &cobra.Command{
		Use:   "fitcheck-smoke",
		Short: "Smoke test a running fitcheck server",
		Long: `Drive a running fitcheck server through its HTTP API.

The run checks health, makes sure the wardrobe has tops and bottoms,
verifies the daily and weekly plans, submits wears concurrently with one
replayed event id, and waits for the worker pool to record them.

Examples:
  # Against a local server
  fitcheck-smoke

  # Seed an empty wardrobe and submit 50 wears
  fitcheck-smoke --url http://localhost:9080 --seed --wears 50`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(logger.WithFormat(logFormat), logger.WithWriter(cmd.ErrOrStderr())); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
			defer cancel()

			stats, err := Run(ctx, cfg)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "ok: %d wears accepted, %d duplicate, streak %d, %s\n",
				stats.WearsAccepted, stats.WearsDuplicate, stats.Streak, stats.Duration.Round(time.Millisecond))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", DefaultBaseURL, "Base URL of the service")
	f.IntVar(&cfg.Wears, "wears", DefaultWears, "Number of wears to submit")
	f.IntVar(&cfg.Workers, "workers", cfg.Workers, "Number of concurrent submitters")
	f.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "HTTP request timeout")
	f.IntVar(&cfg.ReuseLimit, "reuse-limit", DefaultReuseLimit, "Expected weekly bottom reuse limit, 0 to skip")
	f.BoolVar(&cfg.SeedItems, "seed", false, "Add starter garments when the wardrobe is short")
	f.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Log every step result")
	f.DurationVar(&runTimeout, "run-timeout", defaultRunTimeout, "Deadline for the whole run")
	f.StringVar(&logFormat, "log-format", "text", "Log format: text or json")
	return cmd
}
