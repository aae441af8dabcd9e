// Package logging builds the slog loggers used across tilepress and provides
// the attribute helpers and standardized field keys shared by every component.
//
// Two output formats are supported: a compact console format for interactive
// use and JSON for log collection. Components obtain a child logger through
// NewComponentLogger so the component field is applied uniformly.
package logging
