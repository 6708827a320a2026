package main

import (
	"path/filepath"
	"testing"

	"soundcheck/internal/testsupport"
)

func TestAnalyzeRejectsMissingSource(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	writeTestConfig(t, configPath, cfg)

	missing := filepath.Join(t.TempDir(), "nope")
	if _, _, err := runCLI(t, []string{"analyze", missing}, configPath); err == nil {
		t.Fatal("expected error for missing source directory")
	}
}

func TestAnalyzeEmptyDirectorySucceeds(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	writeTestConfig(t, configPath, cfg)

	sourceDir := t.TempDir()
	outputDir := t.TempDir()
	out, _, err := runCLI(t, []string{"analyze", sourceDir, outputDir}, configPath)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	requireContains(t, out, "Processed 0 file(s)")
}

func TestAnalyzeRejectsInvalidWidth(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	writeTestConfig(t, configPath, cfg)

	sourceDir := t.TempDir()
	if _, _, err := runCLI(t, []string{"analyze", "--width", "0", sourceDir}, configPath); err == nil {
		t.Fatal("expected validation error for zero width")
	}
}

func TestResolveRunDirectoriesDefaults(t *testing.T) {
	sourceDir := t.TempDir()
	src, out, err := resolveRunDirectories([]string{sourceDir})
	if err != nil {
		t.Fatalf("resolveRunDirectories: %v", err)
	}
	if src != sourceDir {
		t.Fatalf("unexpected source: %q", src)
	}
	if out != sourceDir {
		t.Fatalf("output should default to source, got %q", out)
	}
}

func TestResolveRunDirectoriesCreatesOutput(t *testing.T) {
	sourceDir := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "nested", "out")
	_, out, err := resolveRunDirectories([]string{sourceDir, outputDir})
	if err != nil {
		t.Fatalf("resolveRunDirectories: %v", err)
	}
	if out != outputDir {
		t.Fatalf("unexpected output: %q", out)
	}
}
