package deps

import (
	"os"
	"path/filepath"
	"testing"

	"soundcheck/internal/config"
)

func TestRequiredHonoursConfigOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.Tools.Sox = "/opt/sox/bin/sox"
	cfg.Tools.Magick = "convert"

	reqs := Required(&cfg)
	if len(reqs) != 3 {
		t.Fatalf("expected 3 requirements, got %d", len(reqs))
	}
	byTool := make(map[Tool]Requirement, len(reqs))
	for _, req := range reqs {
		byTool[req.Tool] = req
	}
	if byTool[ToolSox].Command != "/opt/sox/bin/sox" {
		t.Fatalf("unexpected sox command: %q", byTool[ToolSox].Command)
	}
	if byTool[ToolMagick].Command != "convert" {
		t.Fatalf("unexpected magick command: %q", byTool[ToolMagick].Command)
	}
	if byTool[ToolSoxi].Command != "soxi" {
		t.Fatalf("unexpected soxi command: %q", byTool[ToolSoxi].Command)
	}
}

func TestCheckBinariesReportsMissingAndPresent(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "present")
	if err := os.WriteFile(present, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write fake binary: %v", err)
	}

	statuses := CheckBinaries([]Requirement{
		{Tool: ToolSox, Command: present},
		{Tool: ToolMagick, Command: filepath.Join(dir, "absent")},
		{Tool: ToolSoxi, Command: "  "},
	})

	if !statuses[0].Available {
		t.Fatalf("expected %q to be available: %+v", present, statuses[0])
	}
	if statuses[1].Available {
		t.Fatal("expected absent binary to be unavailable")
	}
	if statuses[1].Detail == "" {
		t.Fatal("expected detail for missing binary")
	}
	if statuses[2].Available || statuses[2].Detail != "command not configured" {
		t.Fatalf("unexpected status for blank command: %+v", statuses[2])
	}
}

func TestMissingFiltersOptional(t *testing.T) {
	statuses := []Status{
		{Tool: ToolSox, Available: false},
		{Tool: ToolSoxi, Available: true},
		{Tool: ToolMagick, Available: false, Optional: true},
	}
	missing := Missing(statuses)
	if len(missing) != 1 || missing[0].Tool != ToolSox {
		t.Fatalf("unexpected missing set: %+v", missing)
	}
}
