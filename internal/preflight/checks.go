package preflight

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sys/unix"

	"tilepress/internal/config"
	"tilepress/internal/staging"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every check that applies to the given config. Staging
// checks are skipped when the direct strategy is configured.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckConverterBinary(cfg.Convert.VipsBinary),
		CheckDirectoryReadable("Input directory", cfg.Paths.InputDir),
		CheckDirectoryWritable("Output directory", cfg.Paths.OutputDir),
	}

	if cfg.Staged() {
		results = append(results,
			CheckDirectoryWritable("Staging directory", cfg.Paths.StagingDir),
			CheckStagingSpace(cfg.Paths.StagingDir, cfg.Staging.MinFreeGiB),
		)
	}

	return results
}

// Passed reports whether every result in the set passed.
func Passed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}

// CheckConverterBinary verifies the converter command resolves on PATH (or
// is an existing absolute path).
func CheckConverterBinary(binary string) Result {
	const name = "Converter binary"
	cmd := strings.TrimSpace(binary)
	if cmd == "" {
		return Result{Name: name, Detail: "command not configured"}
	}
	path, err := exec.LookPath(cmd)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("binary %q not found", cmd)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckDirectoryReadable verifies the directory exists and is readable and
// traversable.
func CheckDirectoryReadable(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.X_OK, "readable")
}

// CheckDirectoryWritable verifies the directory is writable, creating it
// when absent. Output and staging roots are created on demand by a run, so
// an absent directory is only a failure when it cannot be created.
func CheckDirectoryWritable(name, path string) Result {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot create: %v)", path, err)}
		}
	}
	return checkDirectory(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

func checkDirectory(name, path string, mode uint32, okDetail string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, okDetail)}
}

// CheckStagingSpace verifies free space on the staging filesystem is at or
// above the configured floor.
func CheckStagingSpace(path string, minFreeGiB int) Result {
	const name = "Staging free space"
	free, err := staging.FreeBytes(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	freeGiB := float64(free) / (1 << 30)
	if minFreeGiB > 0 && free < uint64(minFreeGiB)<<30 {
		return Result{Name: name, Detail: fmt.Sprintf("%.1f GiB free, floor is %d GiB", freeGiB, minFreeGiB)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%.1f GiB free", freeGiB)}
}
