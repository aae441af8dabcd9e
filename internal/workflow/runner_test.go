package workflow

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gofrs/flock"

	"tilepress/internal/config"
	"tilepress/internal/logging"
	"tilepress/internal/services"
)

// fakeConverter stands in for the vips CLI. It writes a marker file unless
// the source basename is listed in failFor.
type fakeConverter struct {
	mu      sync.Mutex
	failFor map[string]bool
	calls   int
}

func (f *fakeConverter) Convert(_ context.Context, sourcePath, destPath string) error {
	f.mu.Lock()
	f.calls++
	fail := f.failFor[filepath.Base(sourcePath)]
	f.mu.Unlock()
	if fail {
		return errors.New("forced converter failure")
	}
	return os.WriteFile(destPath, []byte("tiles"), 0o644)
}

func (f *fakeConverter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.InputDir = filepath.Join(dir, "in")
	cfg.Paths.OutputDir = filepath.Join(dir, "out")
	cfg.Paths.StagingDir = filepath.Join(dir, "staging")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	cfg.Convert.Workers = 2
	if err := os.MkdirAll(cfg.Paths.InputDir, 0o755); err != nil {
		t.Fatal(err)
	}
	return &cfg
}

func writeInput(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("scan"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRunMixedSuccessAndFailure(t *testing.T) {
	cfg := testConfig(t)
	writeInput(t, filepath.Join(cfg.Paths.InputDir, "a", "b.tif"))
	writeInput(t, filepath.Join(cfg.Paths.InputDir, "a", "c.tiff"))

	converter := &fakeConverter{failFor: map[string]bool{"c.tiff": true}}
	runner := NewRunner(cfg, logging.NewNop(), WithConverter(converter))
	report, err := runner.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if report.Discovered != 2 || report.Pending != 2 || report.Succeeded != 1 || report.Failed != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.ExitCode() == 0 {
		t.Fatal("expected non-zero exit code with a failed item")
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.OutputDir, "a", "b.tif")); err != nil {
		t.Errorf("expected output a/b.tif: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.OutputDir, "a", "c.tif")); !os.IsNotExist(err) {
		t.Errorf("output a/c.tif must not exist, stat err: %v", err)
	}
	if runner.State() != StateDone {
		t.Fatalf("state = %q, want done", runner.State())
	}
}

func TestRunPriorCompletionShortCircuits(t *testing.T) {
	cfg := testConfig(t)
	writeInput(t, filepath.Join(cfg.Paths.InputDir, "x.tif"))
	writeInput(t, filepath.Join(cfg.Paths.OutputDir, "x.tif"))

	converter := &fakeConverter{}
	runner := NewRunner(cfg, logging.NewNop(), WithConverter(converter))
	report, err := runner.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if report.AlreadyComplete != 1 || report.Pending != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.ExitCode() != 0 {
		t.Fatal("expected zero exit code")
	}
	if converter.callCount() != 0 {
		t.Fatalf("converter must not be invoked, ran %d times", converter.callCount())
	}
}

// Running twice over an unchanged tree converts everything once and then
// nothing.
func TestRunIdempotent(t *testing.T) {
	cfg := testConfig(t)
	for _, name := range []string{"a/one.tif", "a/two.tiff", "three.tif"} {
		writeInput(t, filepath.Join(cfg.Paths.InputDir, filepath.FromSlash(name)))
	}

	first, err := NewRunner(cfg, logging.NewNop(), WithConverter(&fakeConverter{})).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if first.Succeeded != 3 {
		t.Fatalf("first run: %+v", first)
	}

	second, err := NewRunner(cfg, logging.NewNop(), WithConverter(&fakeConverter{})).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if second.AlreadyComplete != 3 || second.Pending != 0 || second.Succeeded != 0 {
		t.Fatalf("second run not idempotent: %+v", second)
	}
}

func TestRunZeroInputs(t *testing.T) {
	cfg := testConfig(t)
	runner := NewRunner(cfg, logging.NewNop(), WithConverter(&fakeConverter{}))
	report, err := runner.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.Discovered != 0 || report.ExitCode() != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if runner.State() != StateDone {
		t.Fatalf("state = %q, want done", runner.State())
	}
}

func TestRunMissingInputRootFatal(t *testing.T) {
	cfg := testConfig(t)
	if err := os.RemoveAll(cfg.Paths.InputDir); err != nil {
		t.Fatal(err)
	}

	runner := NewRunner(cfg, logging.NewNop(), WithConverter(&fakeConverter{}))
	_, err := runner.Run(context.Background())
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	if runner.State() != StateFailed {
		t.Fatalf("state = %q, want failed", runner.State())
	}
}

func TestRunDryRunConvertsNothing(t *testing.T) {
	cfg := testConfig(t)
	writeInput(t, filepath.Join(cfg.Paths.InputDir, "a.tif"))

	converter := &fakeConverter{}
	report, err := NewRunner(cfg, logging.NewNop(), WithConverter(converter), WithDryRun(true)).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.Pending != 1 || report.Succeeded != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if converter.callCount() != 0 {
		t.Fatal("dry run must not invoke the converter")
	}
}

func TestRunStagedStrategy(t *testing.T) {
	cfg := testConfig(t)
	cfg.Convert.Strategy = config.StrategyStaged
	cfg.Staging.MinFreeGiB = 0
	writeInput(t, filepath.Join(cfg.Paths.InputDir, "deep", "scan.tiff"))

	report, err := NewRunner(cfg, logging.NewNop(), WithConverter(&fakeConverter{})).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if report.Succeeded != 1 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.OutputDir, "deep", "scan.tif")); err != nil {
		t.Errorf("expected staged output: %v", err)
	}
	// All slots released.
	entries, err := os.ReadDir(cfg.Paths.StagingDir)
	if err != nil && !os.IsNotExist(err) {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.IsDir() {
			t.Errorf("staging slot left behind: %s", e.Name())
		}
	}
}

func TestRunLockExcludesConcurrentRun(t *testing.T) {
	cfg := testConfig(t)
	writeInput(t, filepath.Join(cfg.Paths.InputDir, "a.tif"))
	if err := os.MkdirAll(cfg.Paths.OutputDir, 0o755); err != nil {
		t.Fatal(err)
	}

	// Hold the lock the way a concurrent run would.
	held := flock.New(filepath.Join(cfg.Paths.OutputDir, LockFileName))
	locked, err := held.TryLock()
	if err != nil || !locked {
		t.Fatalf("could not take run lock for the test: locked=%v err=%v", locked, err)
	}
	defer held.Unlock()

	_, err = NewRunner(cfg, logging.NewNop(), WithConverter(&fakeConverter{})).Run(context.Background())
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected lock acquisition failure, got %v", err)
	}
}
