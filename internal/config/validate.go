package config

import (
	"errors"
	"fmt"
	"strings"
)

// Maximum accepted worker count; anything above this is a configuration
// mistake rather than a tuning choice.
const maxWorkers = 128

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateConvert(); err != nil {
		return err
	}
	if err := c.validateStaging(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.InputDir) == "" {
		return errors.New("paths.input_dir must be set")
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	if c.Paths.InputDir == c.Paths.OutputDir {
		return errors.New("paths.input_dir and paths.output_dir must differ")
	}
	return nil
}

func (c *Config) validateConvert() error {
	if c.Convert.Workers < 0 {
		return errors.New("convert.workers must not be negative")
	}
	if c.Convert.Workers > maxWorkers {
		return fmt.Errorf("convert.workers must not exceed %d", maxWorkers)
	}
	switch c.Convert.Strategy {
	case StrategyDirect, StrategyStaged:
	default:
		return fmt.Errorf("convert.strategy must be %q or %q, got %q", StrategyDirect, StrategyStaged, c.Convert.Strategy)
	}
	if len(c.Convert.InputExtensions) == 0 {
		return errors.New("convert.input_extensions must list at least one extension")
	}
	return nil
}

func (c *Config) validateStaging() error {
	if c.Convert.Strategy != StrategyStaged {
		return nil
	}
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		return errors.New("paths.staging_dir must be set when convert.strategy is staged")
	}
	if c.Paths.StagingDir == c.Paths.OutputDir || c.Paths.StagingDir == c.Paths.InputDir {
		return errors.New("paths.staging_dir must not overlap the input or output directories")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
