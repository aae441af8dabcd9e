// Package preflight provides readiness checks for the converter binary and
// the filesystem paths a run depends on.
//
// The CLI "tilepress preflight" command runs RunAll and renders the results;
// failing a check there costs seconds instead of discovering the problem
// partway through a long batch.
package preflight
