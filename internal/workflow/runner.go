package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"tilepress/internal/config"
	"tilepress/internal/dispatch"
	"tilepress/internal/logging"
	"tilepress/internal/pathmap"
	"tilepress/internal/reconcile"
	"tilepress/internal/scan"
	"tilepress/internal/services"
	"tilepress/internal/services/vips"
	"tilepress/internal/staging"
)

// State names the phases of a run.
type State string

const (
	StateInit        State = "init"
	StateDiscovering State = "discovering"
	StateReconciling State = "reconciling"
	StateDispatching State = "dispatching"
	StateReporting   State = "reporting"
	StateDone        State = "done"
	StateFailed      State = "failed"
)

// LockFileName is the per-output-tree run lock, held for the duration of a
// run.
const LockFileName = ".tilepress.lock"

// Runner executes one full discover-reconcile-dispatch-report cycle.
type Runner struct {
	cfg       *config.Config
	logger    *slog.Logger
	converter vips.Client
	dryRun    bool
	state     State
}

// Option configures a Runner.
type Option func(*Runner)

// WithConverter injects a converter client (used in tests).
func WithConverter(client vips.Client) Option {
	return func(r *Runner) {
		if client != nil {
			r.converter = client
		}
	}
}

// WithDryRun makes Run stop after reconciliation and report the work that
// would have been dispatched.
func WithDryRun(enabled bool) Option {
	return func(r *Runner) {
		r.dryRun = enabled
	}
}

// NewRunner constructs a Runner for the given config.
func NewRunner(cfg *config.Config, logger *slog.Logger, opts ...Option) *Runner {
	runner := &Runner{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "workflow"),
		converter: vips.NewCLI(vips.WithBinary(cfg.Convert.VipsBinary)),
		state:     StateInit,
	}
	for _, opt := range opts {
		opt(runner)
	}
	return runner
}

// State returns the phase the runner last entered.
func (r *Runner) State() State {
	return r.state
}

// Run executes the pipeline. The returned Report is valid whenever err is
// nil; per-item failures are inside the report, not in err. A non-nil err
// means the run aborted before dispatch completed.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	started := time.Now()
	report := Report{Strategy: r.cfg.Convert.Strategy, DryRun: r.dryRun}

	// Init: the input root must exist; everything tilepress writes into is
	// created on demand.
	r.state = StateInit
	if info, err := os.Stat(r.cfg.Paths.InputDir); err != nil || !info.IsDir() {
		r.state = StateFailed
		return report, services.Wrap(services.ErrConfiguration, "run", "check input root",
			fmt.Sprintf("Input directory %s is missing or not a directory", r.cfg.Paths.InputDir), err)
	}
	if err := os.MkdirAll(r.cfg.Paths.OutputDir, 0o755); err != nil {
		r.state = StateFailed
		return report, services.Wrap(services.ErrConfiguration, "run", "ensure output root", "Cannot create output directory", err)
	}

	lock := flock.New(filepath.Join(r.cfg.Paths.OutputDir, LockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		r.state = StateFailed
		return report, services.Wrap(services.ErrConfiguration, "run", "acquire run lock", "Cannot acquire run lock in output directory", err)
	}
	if !locked {
		r.state = StateFailed
		return report, services.Wrap(services.ErrConfiguration, "run", "acquire run lock",
			"Another tilepress run is already converting into this output directory", nil)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			r.logger.Warn("failed to release run lock", logging.Error(err))
		}
	}()

	if r.cfg.Staged() {
		r.cleanStaging("startup")
		defer r.cleanStaging("shutdown")
	}

	// Discovering.
	r.state = StateDiscovering
	inputs, err := scan.Inputs(r.cfg.Paths.InputDir, r.cfg.Convert.InputExtensions)
	if err != nil {
		r.state = StateFailed
		return report, services.Wrap(services.ErrDiscovery, "run", "walk input tree", "Cannot enumerate the input tree", err)
	}
	report.Discovered = len(inputs)
	r.logger.Info("discovery completed",
		logging.Int("discovered", len(inputs)),
		logging.String("input_dir", r.cfg.Paths.InputDir),
	)
	if len(inputs) == 0 {
		r.state = StateDone
		report.Duration = time.Since(started)
		return report, nil
	}

	// Reconciling.
	r.state = StateReconciling
	completions, err := reconcile.ScanOutputs(r.cfg.Paths.OutputDir, r.cfg.Convert.OutputExtension)
	if err != nil {
		r.state = StateFailed
		return report, services.Wrap(services.ErrDiscovery, "run", "scan output tree", "Cannot scan the output tree", err)
	}
	pending, completed, err := reconcile.Partition(inputs, completions, r.cfg.Paths.InputDir)
	if err != nil {
		r.state = StateFailed
		return report, services.Wrap(services.ErrDiscovery, "run", "derive keys", "Cannot derive path keys", err)
	}
	report.AlreadyComplete = completed
	report.Pending = len(pending)
	r.logger.Info("reconciliation completed",
		logging.Int("already_complete", completed),
		logging.Int("pending", len(pending)),
	)
	if len(pending) == 0 || r.dryRun {
		r.state = StateDone
		report.Duration = time.Since(started)
		return report, nil
	}

	// Dispatching.
	r.state = StateDispatching
	mapper := pathmap.New(r.cfg.Paths.InputDir, r.cfg.Paths.OutputDir, r.cfg.Convert.OutputExtension)
	pool := dispatch.NewPool(mapper, r.strategy(), r.cfg.Convert.Workers, r.logger)
	report.Workers = pool.Workers()
	r.logger.Info("dispatch starting",
		logging.Int("pending", len(pending)),
		logging.Int("workers", pool.Workers()),
		logging.String("strategy", report.Strategy),
	)
	tally := pool.Run(ctx, pending)
	report.Succeeded = tally.Succeeded
	report.Failed = tally.Failed
	report.Skipped = tally.Skipped

	// Reporting: always reached from Dispatching, regardless of per-item
	// failures.
	r.state = StateReporting
	report.Duration = time.Since(started)
	r.logger.Info("run finished",
		logging.Int("discovered", report.Discovered),
		logging.Int("already_complete", report.AlreadyComplete),
		logging.Int("succeeded", report.Succeeded),
		logging.Int("failed", report.Failed),
		logging.Int("skipped", report.Skipped),
		logging.Duration("duration", report.Duration),
	)

	r.state = StateDone
	return report, nil
}

func (r *Runner) strategy() dispatch.Strategy {
	if r.cfg.Staged() {
		area := staging.NewArea(r.cfg.Paths.StagingDir, r.cfg.Staging.MinFreeGiB)
		return dispatch.NewStaged(r.converter, area, r.cfg.Convert.OutputExtension)
	}
	return dispatch.NewDirect(r.converter)
}

func (r *Runner) cleanStaging(phase string) {
	maxAge := time.Duration(r.cfg.Staging.StaleAfterHrs) * time.Hour
	result := staging.CleanStale(r.cfg.Paths.StagingDir, maxAge, r.logger)
	if len(result.Removed) > 0 {
		r.logger.Info("staging cleanup",
			logging.String("phase", phase),
			logging.Int("removed", len(result.Removed)),
		)
	}
}
