// Package config loads, normalizes, and validates the tilepress TOML
// configuration.
//
// Configuration sections by subsystem:
//   - Paths: input, output, staging, and log directories
//   - Convert: converter binary, worker count, strategy, and extension filters
//   - Staging: local scratch tier behaviour and capacity floor
//   - Logging: log format and level
//
// Load resolves the config file location, applies repository defaults for any
// unset field, expands ~ in path values, and rejects unusable combinations
// before any component sees the config.
package config
