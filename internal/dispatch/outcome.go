package dispatch

// Outcome classifies the result of one conversion attempt.
type Outcome string

const (
	// OutcomeSucceeded means the converter ran and the output was placed.
	OutcomeSucceeded Outcome = "succeeded"
	// OutcomeFailed means some step of the convert-and-place sequence broke.
	OutcomeFailed Outcome = "failed"
	// OutcomeSkipped means the final output appeared between reconciliation
	// and dispatch; no conversion ran.
	OutcomeSkipped Outcome = "skipped"
)

// Result pairs an outcome with the source item that produced it. Err is set
// only for OutcomeFailed.
type Result struct {
	Source  string
	Outcome Outcome
	Err     error
}

// Tally aggregates per-item outcomes for one run. Counts are commutative:
// the same pending set produces the same tally regardless of completion
// order or worker count.
type Tally struct {
	Pending   int
	Succeeded int
	Failed    int
	Skipped   int
}

func (t *Tally) add(r Result) {
	switch r.Outcome {
	case OutcomeSucceeded:
		t.Succeeded++
	case OutcomeFailed:
		t.Failed++
	case OutcomeSkipped:
		t.Skipped++
	}
}
