// Package scan discovers source files under the input root.
//
// Discovery is a single WalkDir pass with a case-insensitive extension
// filter; results come back in walk order as absolute paths. The walk order
// is stable between runs but carries no semantic meaning downstream.
package scan
