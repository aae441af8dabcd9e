package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"tilepress/internal/config"
	"tilepress/internal/logging"
	"tilepress/internal/workflow"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var workers int
	var strategy string
	var staged bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Convert every pending input in the configured tree",
		Long: `Walk the input tree, skip inputs whose converted output already exists,
and convert the rest. Runs are resumable: re-running after an interruption
picks up exactly the items that have no output yet.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("workers") || staged || strings.TrimSpace(strategy) != "" {
				if cmd.Flags().Changed("workers") {
					cfg.Convert.Workers = workers
				}
				if staged {
					cfg.Convert.Strategy = config.StrategyStaged
				}
				if s := strings.ToLower(strings.TrimSpace(strategy)); s != "" {
					cfg.Convert.Strategy = s
				}
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			logger, err := newRunLogger(cfg)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			runner := workflow.NewRunner(cfg, logger, workflow.WithDryRun(dryRun))
			report, err := runner.Run(runCtx)
			if err != nil {
				return err
			}

			if ctx.jsonMode() {
				if err := writeJSON(cmd, report); err != nil {
					return err
				}
			} else {
				printReport(cmd, report)
			}

			if report.Failed > 0 {
				return fmt.Errorf("%d of %d conversions failed", report.Failed, report.Pending)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "Worker count (0 uses one per CPU)")
	cmd.Flags().StringVar(&strategy, "strategy", "", "Execution strategy: direct or staged")
	cmd.Flags().BoolVar(&staged, "staged", false, "Shorthand for --strategy staged")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report pending work without converting")

	return cmd
}

// newRunLogger sends log lines to stderr and, when a log directory is
// configured, to tilepress.log inside it. Stdout stays free for the report.
func newRunLogger(cfg *config.Config) (*slog.Logger, error) {
	paths := []string{"stderr"}
	if dir := strings.TrimSpace(cfg.Paths.LogDir); dir != "" {
		paths = append(paths, filepath.Join(dir, "tilepress.log"))
	}
	return logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: paths,
	})
}
