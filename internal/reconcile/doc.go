// Package reconcile computes the remaining work set by comparing discovered
// inputs against the output tree.
//
// The output tree is scanned exactly once per run into a completion set of
// path keys; each input is then a cheap in-memory membership test. The
// batched scan is deliberate: one walk of the output tree costs O(outputs)
// remote operations, while a per-input existence check would pay a network
// round trip per file, which dominates at scale. The set is a snapshot of
// prior runs' results and is never updated with the current run's writes.
package reconcile
