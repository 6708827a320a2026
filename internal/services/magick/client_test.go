package magick

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
)

func TestNewCLIWithBinary(t *testing.T) {
	cli := NewCLI(WithBinary("/usr/local/bin/magick"))
	if cli.binary != "/usr/local/bin/magick" {
		t.Fatalf("expected binary override to be applied, got %q", cli.binary)
	}
}

func TestAppendVerticalValidatesInputs(t *testing.T) {
	cli := NewCLI()
	ctx := context.Background()
	if err := cli.AppendVertical(ctx, []string{"only.png"}, "out.png"); err == nil {
		t.Fatal("expected error with fewer than two inputs")
	}
	if err := cli.AppendVertical(ctx, []string{"a.png", "b.png"}, ""); err == nil {
		t.Fatal("expected error with empty output")
	}
}

func TestAppendVerticalArgs(t *testing.T) {
	var captured []string
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		captured = append([]string(nil), args...)
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "MAGICK_HELPER_MODE=success")
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})

	cli := NewCLI()
	err := cli.AppendVertical(context.Background(), []string{"full.png", "zoom.png"}, "stacked.png")
	if err != nil {
		t.Fatalf("AppendVertical returned error: %v", err)
	}

	want := []string{"full.png", "zoom.png", "-append", "stacked.png"}
	if strings.Join(captured, "\x00") != strings.Join(want, "\x00") {
		t.Fatalf("unexpected args: %v", captured)
	}
}

func TestAppendVerticalFailureIncludesDiagnostics(t *testing.T) {
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "MAGICK_HELPER_MODE=failure")
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})

	cli := NewCLI()
	err := cli.AppendVertical(context.Background(), []string{"full.png", "zoom.png"}, "stacked.png")
	if err == nil {
		t.Fatal("expected error from failing append")
	}
	if !strings.Contains(err.Error(), "unable to open image") {
		t.Fatalf("expected diagnostics in error, got %v", err)
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	switch os.Getenv("MAGICK_HELPER_MODE") {
	case "failure":
		fmt.Fprintln(os.Stderr, "magick: unable to open image 'zoom.png'")
		os.Exit(1)
	default:
		os.Exit(0)
	}
}
