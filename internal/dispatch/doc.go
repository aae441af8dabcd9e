// Package dispatch drains the pending set through a bounded worker pool.
//
// Each item gets exactly one conversion attempt. Workers re-check the final
// destination immediately before converting to absorb the race where another
// process finished the item after reconciliation; that case is reported as
// skipped, not succeeded. Per-item outcomes flow over a channel to a single
// collector goroutine, so the aggregate tally needs no locking and is
// independent of completion order. One item's failure never blocks the rest
// of the queue.
//
// The convert-and-place sequence itself is pluggable: Direct writes beside
// the final destination, Staged routes through the local scratch tier first.
package dispatch
