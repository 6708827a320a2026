package sox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Stats runs the sox stats effect at the given bit depth and returns the raw
// textual report. SoX writes the report to stderr; stdout stays empty when
// the null sink is used.
func (c *CLI) Stats(ctx context.Context, path string, bitDepth int) (string, error) {
	if path == "" {
		return "", errors.New("input path required")
	}
	if bitDepth <= 0 {
		return "", fmt.Errorf("bit depth must be positive, got %d", bitDepth)
	}

	args := []string{path, "-n", "stats", "-b", strconv.Itoa(bitDepth)}
	cmd := commandContext(ctx, c.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("sox stats: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	report := stderr.String()
	if strings.TrimSpace(report) == "" {
		// Some builds route the report to stdout.
		report = stdout.String()
	}
	return report, nil
}

// BitDepth reads the file's bit depth via soxi.
func (c *CLI) BitDepth(ctx context.Context, path string) (int, error) {
	out, err := c.info(ctx, "-b", path)
	if err != nil {
		return 0, err
	}
	depth, err := strconv.Atoi(out)
	if err != nil {
		return 0, fmt.Errorf("parse bit depth %q: %w", out, err)
	}
	return depth, nil
}

// Duration reads the file's duration in seconds via soxi.
func (c *CLI) Duration(ctx context.Context, path string) (float64, error) {
	out, err := c.info(ctx, "-D", path)
	if err != nil {
		return 0, err
	}
	seconds, err := strconv.ParseFloat(out, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", out, err)
	}
	return seconds, nil
}

func (c *CLI) info(ctx context.Context, flag, path string) (string, error) {
	if path == "" {
		return "", errors.New("input path required")
	}
	cmd := commandContext(ctx, c.infoBinary, flag, path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("soxi %s: %w: %s", flag, err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}
