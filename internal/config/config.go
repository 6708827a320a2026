package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Analysis contains spectrogram and metric tunables.
type Analysis struct {
	// Width is the pixel width of the full spectrogram pane.
	Width int `toml:"width"`
	// ZoomSeconds is the length of the zoom pane window in seconds.
	ZoomSeconds float64 `toml:"zoom_seconds"`
	// ZoomOffset is where the zoom window starts, in seconds from the
	// beginning of the file.
	ZoomOffset float64 `toml:"zoom_offset"`
	// SampleRate is the rate files are resampled to before rendering so the
	// visible frequency range is identical regardless of source rate.
	SampleRate int `toml:"sample_rate"`
	// Formats lists the audio file extensions scanned per run.
	Formats []string `toml:"formats"`
	// FallbackBitDepth is used when file metadata cannot be read.
	FallbackBitDepth int `toml:"fallback_bit_depth"`
}

// Paths contains directory configuration.
type Paths struct {
	LogDir string `toml:"log_dir"`
}

// Tools contains overrides for the external binaries soundcheck shells out to.
type Tools struct {
	Sox    string `toml:"sox"`
	Soxi   string `toml:"soxi"`
	Magick string `toml:"magick"`
}

// Installer contains configuration for automatic dependency installation.
type Installer struct {
	// Enabled allows `soundcheck deps install` to mutate host package state.
	Enabled bool `toml:"enabled"`
	// Manager pins a specific package manager instead of auto-detection.
	Manager string `toml:"manager"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for soundcheck.
//
// Configuration sections by subsystem:
//   - Analysis: spectrogram geometry, zoom window, resample rate, formats
//   - Paths: log and ledger directory
//   - Tools: external binary overrides (sox, soxi, magick)
//   - Installer: package-manager based dependency installation
//   - Logging: log format and level
type Config struct {
	Analysis  Analysis  `toml:"analysis"`
	Paths     Paths     `toml:"paths"`
	Tools     Tools     `toml:"tools"`
	Installer Installer `toml:"installer"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/soundcheck/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a config file actually existed at the resolved path.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(defaultPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaultPath, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	return defaultPath, true, nil
}

// ExpandPath expands a leading tilde to the current user's home directory and
// returns an absolute path.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return home, nil
	}
	if strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		trimmed = filepath.Join(home, trimmed[2:])
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("absolutize path: %w", err)
	}
	return abs, nil
}

// EnsureDirectories creates the directories soundcheck writes to outside of a
// specific run.
func (c *Config) EnsureDirectories() error {
	if c.Paths.LogDir == "" {
		return nil
	}
	if err := os.MkdirAll(c.Paths.LogDir, 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	return nil
}

// WriteSample writes the embedded sample configuration to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	expanded, err := ExpandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
