// Package workflow wires discovery, reconciliation, and dispatch into one
// run and owns the run-level state machine.
//
// A run moves Init -> Discovering -> Reconciling -> Dispatching ->
// Reporting -> Done. Failed is terminal and reachable only from Init
// (unusable configuration) or Discovering (the input tree cannot be
// enumerated); per-item conversion failures never abort the run, they are
// absorbed into the report. Zero discovered inputs and zero pending items
// both short-circuit straight to Done.
//
// A flock-held lock file in the output root keeps two tilepress processes
// from dispatching over the same tree at once.
package workflow
