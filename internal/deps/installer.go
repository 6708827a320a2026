package deps

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var (
	commandContext = exec.CommandContext
	lookPath       = exec.LookPath
)

// ErrNoManager indicates no supported package manager is present on the host.
var ErrNoManager = errors.New("no supported package manager found")

// Manager describes one supported package manager.
type Manager struct {
	Name        string
	installArgs []string
	packages    map[Tool]string
}

// soxi ships inside the sox package on every supported manager, so both map
// to the same package id. The ImageMagick package name is the one that
// actually differs across managers.
var managers = []Manager{
	{
		Name:        "apt-get",
		installArgs: []string{"install", "-y"},
		packages:    map[Tool]string{ToolSox: "sox", ToolSoxi: "sox", ToolMagick: "imagemagick"},
	},
	{
		Name:        "dnf",
		installArgs: []string{"install", "-y"},
		packages:    map[Tool]string{ToolSox: "sox", ToolSoxi: "sox", ToolMagick: "ImageMagick"},
	},
	{
		Name:        "yum",
		installArgs: []string{"install", "-y"},
		packages:    map[Tool]string{ToolSox: "sox", ToolSoxi: "sox", ToolMagick: "ImageMagick"},
	},
	{
		Name:        "pacman",
		installArgs: []string{"-S", "--noconfirm"},
		packages:    map[Tool]string{ToolSox: "sox", ToolSoxi: "sox", ToolMagick: "imagemagick"},
	},
	{
		Name:        "zypper",
		installArgs: []string{"--non-interactive", "install"},
		packages:    map[Tool]string{ToolSox: "sox", ToolSoxi: "sox", ToolMagick: "ImageMagick"},
	},
	{
		Name:        "apk",
		installArgs: []string{"add"},
		packages:    map[Tool]string{ToolSox: "sox", ToolSoxi: "sox", ToolMagick: "imagemagick"},
	},
	{
		Name:        "brew",
		installArgs: []string{"install"},
		packages:    map[Tool]string{ToolSox: "sox", ToolSoxi: "sox", ToolMagick: "imagemagick"},
	},
}

// Managers returns the supported package managers in detection preference
// order.
func Managers() []string {
	names := make([]string, 0, len(managers))
	for _, m := range managers {
		names = append(names, m.Name)
	}
	return names
}

// Detect returns the first available package manager. A non-empty pin limits
// detection to that manager; an unknown pin is an error.
func Detect(pinned string) (*Manager, error) {
	pinned = strings.ToLower(strings.TrimSpace(pinned))
	for i := range managers {
		m := &managers[i]
		if pinned != "" && m.Name != pinned {
			continue
		}
		if _, err := lookPath(m.Name); err == nil {
			return m, nil
		}
		if pinned != "" {
			return nil, fmt.Errorf("pinned package manager %q not available", pinned)
		}
	}
	if pinned != "" {
		return nil, fmt.Errorf("unknown package manager %q (supported: %s)", pinned, strings.Join(Managers(), ", "))
	}
	return nil, ErrNoManager
}

// PackageFor maps a logical tool name to this manager's package id.
func (m *Manager) PackageFor(tool Tool) (string, bool) {
	pkg, ok := m.packages[tool]
	return pkg, ok
}

// Install resolves the given tools to package ids and runs one
// non-interactive install command. Duplicate package ids are collapsed.
func (m *Manager) Install(ctx context.Context, tools []Tool) error {
	packages := make([]string, 0, len(tools))
	seen := make(map[string]struct{}, len(tools))
	for _, tool := range tools {
		pkg, ok := m.PackageFor(tool)
		if !ok {
			return fmt.Errorf("no %s package known for tool %q", m.Name, tool)
		}
		if _, dup := seen[pkg]; dup {
			continue
		}
		seen[pkg] = struct{}{}
		packages = append(packages, pkg)
	}
	if len(packages) == 0 {
		return nil
	}

	args := append(append([]string(nil), m.installArgs...), packages...)
	cmd := commandContext(ctx, m.Name, args...)
	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(combined.String())
		if detail != "" {
			return fmt.Errorf("%s install %s: %w: %s", m.Name, strings.Join(packages, " "), err, detail)
		}
		return fmt.Errorf("%s install %s: %w", m.Name, strings.Join(packages, " "), err)
	}
	return nil
}
