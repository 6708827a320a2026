package testsupport

import (
	"context"
	"testing"

	"soundcheck/internal/config"
	"soundcheck/internal/runlog"
)

// MustOpenStore opens a runlog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *runlog.Store {
	t.Helper()

	store, err := runlog.Open(cfg)
	if err != nil {
		t.Fatalf("runlog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewRun creates a run for tests using the provided store.
func NewRun(t testing.TB, store *runlog.Store, sourceDir, outputDir string) *runlog.Run {
	t.Helper()

	run, err := store.CreateRun(context.Background(), sourceDir, outputDir)
	if err != nil {
		t.Fatalf("store.CreateRun: %v", err)
	}
	return run
}
