package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	if c.Analysis.Width <= 0 {
		return errors.New("analysis.width must be positive")
	}
	if c.Analysis.ZoomSeconds <= 0 {
		return errors.New("analysis.zoom_seconds must be positive")
	}
	if c.Analysis.ZoomOffset < 0 {
		return errors.New("analysis.zoom_offset must not be negative")
	}
	if c.Analysis.SampleRate <= 0 {
		return errors.New("analysis.sample_rate must be positive")
	}
	switch c.Analysis.FallbackBitDepth {
	case 8, 16, 24, 32:
	default:
		return fmt.Errorf("analysis.fallback_bit_depth: unsupported value %d", c.Analysis.FallbackBitDepth)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
