package magick

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var commandContext = exec.CommandContext

// Client defines the compositing behaviour the pipeline depends on.
type Client interface {
	AppendVertical(ctx context.Context, inputs []string, output string) error
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI wraps the magick command-line tool.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "magick"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// AppendVertical stacks the input images top to bottom into output.
func (c *CLI) AppendVertical(ctx context.Context, inputs []string, output string) error {
	if len(inputs) < 2 {
		return errors.New("at least two input images required")
	}
	if output == "" {
		return errors.New("output path required")
	}

	args := append(append([]string(nil), inputs...), "-append", output)
	cmd := commandContext(ctx, c.binary, args...)
	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(combined.String())
		if detail != "" {
			return fmt.Errorf("magick append: %w: %s", err, detail)
		}
		return fmt.Errorf("magick append: %w", err)
	}
	return nil
}

var _ Client = (*CLI)(nil)
