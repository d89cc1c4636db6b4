package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"forex-agent/internal/logger"
	"forex-agent/internal/provider"
	"forex-agent/internal/runctx"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "forex-agent",
		Short:         "Candle-driven forex trading agent",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to config.yaml")
	root.AddCommand(runCmd(), cycleCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cycleCmd runs exactly one pipeline pass and exits. Exit code 1 means the
// cycle itself faulted; business rejections still exit 0.
func cycleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cycle",
		Short: "Run a single pipeline cycle and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap(configPath)
			if err != nil {
				return err
			}
			defer app.shutdown()

			ctx := runctx.WithRun(cmd.Context(), app.run)

			result, err := app.engine.RunCycle(ctx)
			if err != nil {
				return err
			}
			b, _ := json.Marshal(result)
			fmt.Println(string(b))
			return nil
		},
	}
}

// runCmd ticks once per candle close, aligned to the timeframe boundary plus
// a short grace period for the feed to publish the bar.
func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the agent continuously, one cycle per closed candle",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap(configPath)
			if err != nil {
				return err
			}
			defer app.shutdown()

			step, err := provider.ParseTimeframe(app.cfg.Timeframe)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			ctx = runctx.WithRun(ctx, app.run)

			sigc := make(chan os.Signal, 1)
			signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

			logger.Info(ctx, "Agent started", "symbol", app.cfg.Symbol,
				"timeframe", app.cfg.Timeframe, "mode", app.cfg.Mode, "run_id", app.run.RunID)

			// First cycle immediately, then on every candle boundary.
			runOnce(ctx, app)
			for {
				select {
				case <-time.After(untilNextCandle(time.Now().UTC(), step)):
					runOnce(ctx, app)
				case <-sigc:
					logger.Info(ctx, "Shutting down")
					return nil
				case <-ctx.Done():
					return nil
				}
			}
		},
	}
}

func runOnce(ctx context.Context, app *application) {
	result, err := app.engine.RunCycle(ctx)
	if err != nil {
		logger.ErrorWithErr(ctx, "Cycle failed", err)
		return
	}
	b, _ := json.Marshal(result)
	fmt.Println(string(b))
}

// untilNextCandle returns the wait until the next bar boundary plus a grace
// period so the provider has published the closed candle.
func untilNextCandle(now time.Time, step time.Duration) time.Duration {
	const grace = 5 * time.Second
	next := now.Truncate(step).Add(step)
	return next.Sub(now) + grace
}
