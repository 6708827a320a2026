package sox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
)

var commandContext = exec.CommandContext

// Client defines the SoX behaviour the pipeline depends on.
type Client interface {
	Stats(ctx context.Context, path string, bitDepth int) (string, error)
	Spectrogram(ctx context.Context, req SpectrogramRequest) error
	BitDepth(ctx context.Context, path string) (int, error)
	Duration(ctx context.Context, path string) (float64, error)
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default sox binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithInfoBinary overrides the default soxi binary name.
func WithInfoBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.infoBinary = binary
		}
	}
}

// CLI wraps the sox and soxi command-line tools.
type CLI struct {
	binary     string
	infoBinary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "sox", infoBinary: "soxi"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// SpectrogramRequest describes one spectrogram rendering.
type SpectrogramRequest struct {
	Input  string
	Output string
	// Width is the spectrogram pixel width.
	Width int
	// SampleRate resamples the audio before rendering so the frequency axis
	// tops out at SampleRate/2 regardless of the source rate.
	SampleRate int
	Title      string
	// Offset and Duration restrict rendering to [Offset, Offset+Duration).
	// A zero Duration renders the whole file.
	Offset   float64
	Duration float64
}

// RenderError carries the combined sox output of a failed rendering so
// callers can persist it as a diagnostic sidecar.
type RenderError struct {
	Operation string
	Output    []byte
	Err       error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("sox %s: %v", e.Operation, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Spectrogram renders req.Input into req.Output as a PNG. Failures return a
// *RenderError with the tool's captured output.
func (c *CLI) Spectrogram(ctx context.Context, req SpectrogramRequest) error {
	if req.Input == "" {
		return errors.New("input path required")
	}
	if req.Output == "" {
		return errors.New("output path required")
	}
	if req.Width <= 0 {
		return fmt.Errorf("width must be positive, got %d", req.Width)
	}
	if req.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", req.SampleRate)
	}

	args := []string{req.Input, "-n"}
	if req.Duration > 0 {
		args = append(args, "trim", formatSeconds(req.Offset), formatSeconds(req.Duration))
	}
	args = append(args, "rate", strconv.Itoa(req.SampleRate), "spectrogram", "-x", strconv.Itoa(req.Width))
	if req.Title != "" {
		args = append(args, "-t", req.Title)
	}
	args = append(args, "-o", req.Output)

	cmd := commandContext(ctx, c.binary, args...)
	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined
	if err := cmd.Run(); err != nil {
		op := "spectrogram"
		if req.Duration > 0 {
			op = "zoom spectrogram"
		}
		return &RenderError{Operation: op, Output: append([]byte(nil), combined.Bytes()...), Err: err}
	}
	return nil
}

func formatSeconds(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

var _ Client = (*CLI)(nil)
