package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeConvert()
	c.normalizeStaging()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.InputDir, err = expandPath(c.Paths.InputDir); err != nil {
		return fmt.Errorf("paths.input_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeConvert() {
	c.Convert.VipsBinary = strings.TrimSpace(c.Convert.VipsBinary)
	if c.Convert.VipsBinary == "" {
		c.Convert.VipsBinary = defaultVipsBinary
	}

	c.Convert.Strategy = strings.ToLower(strings.TrimSpace(c.Convert.Strategy))
	if c.Convert.Strategy == "" {
		c.Convert.Strategy = defaultStrategy
	}

	if len(c.Convert.InputExtensions) == 0 {
		c.Convert.InputExtensions = defaultInputExtensions()
	}
	normalized := make([]string, 0, len(c.Convert.InputExtensions))
	for _, ext := range c.Convert.InputExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}
	c.Convert.InputExtensions = normalized

	c.Convert.OutputExtension = strings.ToLower(strings.TrimSpace(c.Convert.OutputExtension))
	if c.Convert.OutputExtension == "" {
		c.Convert.OutputExtension = defaultOutputExtension
	}
	if !strings.HasPrefix(c.Convert.OutputExtension, ".") {
		c.Convert.OutputExtension = "." + c.Convert.OutputExtension
	}
}

func (c *Config) normalizeStaging() {
	if c.Staging.MinFreeGiB <= 0 {
		c.Staging.MinFreeGiB = defaultMinFreeGiB
	}
	if c.Staging.StaleAfterHrs <= 0 {
		c.Staging.StaleAfterHrs = defaultStaleAfterHrs
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
