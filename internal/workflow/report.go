package workflow

import "time"

// Report aggregates the outcome of one run.
type Report struct {
	Discovered      int           `json:"discovered"`
	AlreadyComplete int           `json:"already_complete"`
	Pending         int           `json:"pending"`
	Succeeded       int           `json:"succeeded"`
	Failed          int           `json:"failed"`
	Skipped         int           `json:"skipped"`
	Strategy        string        `json:"strategy"`
	Workers         int           `json:"workers"`
	DryRun          bool          `json:"dry_run,omitempty"`
	Duration        time.Duration `json:"duration_ns"`
}

// ExitCode maps the report onto the process exit status: zero when no item
// failed, non-zero otherwise. Skipped and already-complete items are not
// failures.
func (r Report) ExitCode() int {
	if r.Failed > 0 {
		return 1
	}
	return 0
}
