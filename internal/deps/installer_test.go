package deps

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
)

func stubLookPath(t *testing.T, available ...string) {
	t.Helper()
	original := lookPath
	lookPath = func(name string) (string, error) {
		for _, candidate := range available {
			if candidate == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", exec.ErrNotFound
	}
	t.Cleanup(func() {
		lookPath = original
	})
}

func TestDetectPrefersEarlierManagers(t *testing.T) {
	stubLookPath(t, "dnf", "brew")

	manager, err := Detect("")
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	if manager.Name != "dnf" {
		t.Fatalf("expected dnf to win preference order, got %q", manager.Name)
	}
}

func TestDetectNoneAvailable(t *testing.T) {
	stubLookPath(t)

	_, err := Detect("")
	if !errors.Is(err, ErrNoManager) {
		t.Fatalf("expected ErrNoManager, got %v", err)
	}
}

func TestDetectPinned(t *testing.T) {
	stubLookPath(t, "apt-get", "pacman")

	manager, err := Detect("pacman")
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	if manager.Name != "pacman" {
		t.Fatalf("expected pinned manager, got %q", manager.Name)
	}
}

func TestDetectPinnedUnavailable(t *testing.T) {
	stubLookPath(t, "apt-get")

	if _, err := Detect("dnf"); err == nil {
		t.Fatal("expected error for unavailable pinned manager")
	}
}

func TestDetectPinnedUnknown(t *testing.T) {
	stubLookPath(t, "apt-get")

	_, err := Detect("portage")
	if err == nil || !strings.Contains(err.Error(), "unknown package manager") {
		t.Fatalf("expected unknown manager error, got %v", err)
	}
}

func TestPackageForMagickDiffersByManager(t *testing.T) {
	byName := make(map[string]*Manager, len(managers))
	for i := range managers {
		byName[managers[i].Name] = &managers[i]
	}

	if pkg, _ := byName["apt-get"].PackageFor(ToolMagick); pkg != "imagemagick" {
		t.Fatalf("unexpected apt-get package: %q", pkg)
	}
	if pkg, _ := byName["dnf"].PackageFor(ToolMagick); pkg != "ImageMagick" {
		t.Fatalf("unexpected dnf package: %q", pkg)
	}
	for _, m := range managers {
		if pkg, ok := m.PackageFor(ToolSox); !ok || pkg != "sox" {
			t.Fatalf("%s: unexpected sox package %q", m.Name, pkg)
		}
	}
}

func TestInstallCollapsesDuplicatePackages(t *testing.T) {
	var captured []string
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		captured = append([]string{name}, args...)
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "DEPS_HELPER_MODE=success")
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})

	manager := &managers[0] // apt-get
	err := manager.Install(context.Background(), []Tool{ToolSox, ToolSoxi, ToolMagick})
	if err != nil {
		t.Fatalf("Install returned error: %v", err)
	}

	want := []string{"apt-get", "install", "-y", "sox", "imagemagick"}
	if strings.Join(captured, "\x00") != strings.Join(want, "\x00") {
		t.Fatalf("unexpected command: %v", captured)
	}
}

func TestInstallSurfacesToolOutputOnFailure(t *testing.T) {
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "DEPS_HELPER_MODE=failure")
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})

	manager := &managers[0]
	err := manager.Install(context.Background(), []Tool{ToolSox})
	if err == nil {
		t.Fatal("expected error from failing install")
	}
	if !strings.Contains(err.Error(), "permission denied") {
		t.Fatalf("expected tool output in error, got %v", err)
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	switch os.Getenv("DEPS_HELPER_MODE") {
	case "failure":
		fmt.Fprintln(os.Stderr, "E: permission denied")
		os.Exit(100)
	default:
		os.Exit(0)
	}
}
