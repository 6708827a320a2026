package runlog_test

import (
	"context"
	"path/filepath"
	"testing"

	"soundcheck/internal/runlog"
)

func openStore(t *testing.T) *runlog.Store {
	t.Helper()
	store, err := runlog.OpenPath(filepath.Join(t.TempDir(), "soundcheck.db"))
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestCreateAndFinishRun(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	run, err := store.CreateRun(ctx, "/music", "/music/out")
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	if run.ID == "" {
		t.Fatal("expected run id")
	}

	run.Processed = 3
	run.Failed = 1
	run.Rows = 2
	if err := store.FinishRun(ctx, run); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 5)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected one run, got %d", len(runs))
	}
	got := runs[0]
	if got.ID != run.ID || got.SourceDir != "/music" || got.OutputDir != "/music/out" {
		t.Fatalf("unexpected run: %+v", got)
	}
	if got.Processed != 3 || got.Failed != 1 || got.Rows != 2 {
		t.Fatalf("unexpected counters: %+v", got)
	}
	if got.FinishedAt == nil {
		t.Fatal("expected finished timestamp")
	}
}

func TestFileLifecycleHappyPath(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	run, err := store.CreateRun(ctx, "/music", "/music")
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	record, err := store.AddFile(ctx, run.ID, "track.flac", "flac")
	if err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	if record.Status != runlog.StatusPending {
		t.Fatalf("unexpected initial status: %s", record.Status)
	}

	steps := []runlog.FileStatus{
		runlog.StatusSpectrogramAttempt,
		runlog.StatusSpectrogramOK,
		runlog.StatusMetricAttempt,
		runlog.StatusRowWritten,
		runlog.StatusDone,
	}
	crest := 13.32
	for _, next := range steps {
		if next == runlog.StatusRowWritten {
			record.CrestFactorDB = &crest
		}
		if err := store.Transition(ctx, record, next); err != nil {
			t.Fatalf("Transition to %s: %v", next, err)
		}
	}

	records, err := store.FilesForRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("FilesForRun: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	final := records[0]
	if final.Status != runlog.StatusDone {
		t.Fatalf("unexpected final status: %s", final.Status)
	}
	if final.CrestFactorDB == nil || *final.CrestFactorDB != 13.32 {
		t.Fatalf("unexpected crest factor: %v", final.CrestFactorDB)
	}
}

func TestTransitionRejectsIllegalSteps(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	run, err := store.CreateRun(ctx, "/music", "/music")
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	record, err := store.AddFile(ctx, run.ID, "track.flac", "flac")
	if err != nil {
		t.Fatalf("AddFile: %v", err)
	}

	if err := store.Transition(ctx, record, runlog.StatusDone); err == nil {
		t.Fatal("expected pending -> done to be rejected")
	}
	if record.Status != runlog.StatusPending {
		t.Fatalf("status should be unchanged, got %s", record.Status)
	}
}

func TestCanTransitionTable(t *testing.T) {
	legal := [][2]runlog.FileStatus{
		{runlog.StatusPending, runlog.StatusSpectrogramAttempt},
		{runlog.StatusSpectrogramAttempt, runlog.StatusSpectrogramOK},
		{runlog.StatusSpectrogramAttempt, runlog.StatusSpectrogramFailed},
		{runlog.StatusSpectrogramOK, runlog.StatusMetricAttempt},
		{runlog.StatusSpectrogramFailed, runlog.StatusDone},
		{runlog.StatusMetricAttempt, runlog.StatusRowWritten},
		{runlog.StatusMetricAttempt, runlog.StatusRowSkipped},
		{runlog.StatusRowWritten, runlog.StatusDone},
		{runlog.StatusRowSkipped, runlog.StatusDone},
	}
	for _, pair := range legal {
		if !runlog.CanTransition(pair[0], pair[1]) {
			t.Fatalf("expected %s -> %s to be legal", pair[0], pair[1])
		}
	}

	illegal := [][2]runlog.FileStatus{
		{runlog.StatusPending, runlog.StatusMetricAttempt},
		{runlog.StatusDone, runlog.StatusPending},
		{runlog.StatusRowWritten, runlog.StatusRowSkipped},
		{runlog.StatusSpectrogramOK, runlog.StatusSpectrogramAttempt},
	}
	for _, pair := range illegal {
		if runlog.CanTransition(pair[0], pair[1]) {
			t.Fatalf("expected %s -> %s to be illegal", pair[0], pair[1])
		}
	}
}

func TestOpenExistingDatabaseKeepsData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "soundcheck.db")

	first, err := runlog.OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	if _, err := first.CreateRun(context.Background(), "/a", "/b"); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second, err := runlog.OpenPath(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()

	runs, err := second.RecentRuns(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected persisted run, got %d", len(runs))
	}
}
