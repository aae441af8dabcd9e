// Package staging manages the local scratch tier used by the staged
// conversion strategy.
//
// Each in-flight conversion owns one Slot: a uniquely named scratch
// directory holding the staged copy of the source and the locally produced
// output. Slots are partitioned by UUID so concurrent workers never contend
// on a path, and Release removes the directory on every exit path. CleanStale
// reclaims slots abandoned by crashed runs.
package staging
