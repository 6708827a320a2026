package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAnalysis()
	c.normalizeTools()
	c.normalizeInstaller()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.LogDir, err = ExpandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAnalysis() {
	formats := make([]string, 0, len(c.Analysis.Formats))
	seen := make(map[string]struct{}, len(c.Analysis.Formats))
	for _, format := range c.Analysis.Formats {
		cleaned := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(format, ".")))
		if cleaned == "" {
			continue
		}
		if _, ok := seen[cleaned]; ok {
			continue
		}
		seen[cleaned] = struct{}{}
		formats = append(formats, cleaned)
	}
	if len(formats) == 0 {
		formats = defaultFormats()
	}
	c.Analysis.Formats = formats
}

func (c *Config) normalizeTools() {
	if strings.TrimSpace(c.Tools.Sox) == "" {
		c.Tools.Sox = defaultSoxBinary
	}
	if strings.TrimSpace(c.Tools.Soxi) == "" {
		c.Tools.Soxi = defaultSoxiBinary
	}
	if strings.TrimSpace(c.Tools.Magick) == "" {
		c.Tools.Magick = defaultMagickBinary
	}
}

func (c *Config) normalizeInstaller() {
	c.Installer.Manager = strings.ToLower(strings.TrimSpace(c.Installer.Manager))
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if format == "" {
		format = defaultLogFormat
	}
	c.Logging.Format = format

	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level
}
