package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/gofrs/flock"

	"soundcheck/internal/analysis"
	"soundcheck/internal/config"
	"soundcheck/internal/logging"
	"soundcheck/internal/media"
	"soundcheck/internal/report"
	"soundcheck/internal/runlog"
	"soundcheck/internal/scanner"
	"soundcheck/internal/services/magick"
	"soundcheck/internal/services/sox"
	"soundcheck/internal/spectrogram"
)

// lockFileName guards an output directory against concurrent runs.
const lockFileName = ".soundcheck.lock"

// FormatSummary aggregates one format pass.
type FormatSummary struct {
	Format   string
	Files    int
	Images   int
	Rows     int
	Failures int
}

// Summary aggregates a whole run.
type Summary struct {
	RunID     string
	SourceDir string
	OutputDir string
	Formats   []FormatSummary
	Processed int
	Failed    int
	Rows      int
}

// Runner executes batch runs.
type Runner struct {
	cfg       *config.Config
	store     *runlog.Store
	sox       sox.Client
	magick    magick.Client
	generator *spectrogram.Generator
	logger    *slog.Logger
}

// New constructs a Runner. The store may be nil when no ledger is wanted
// (tests); every other collaborator is required.
func New(cfg *config.Config, store *runlog.Store, soxClient sox.Client, magickClient magick.Client, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		cfg:       cfg,
		store:     store,
		sox:       soxClient,
		magick:    magickClient,
		generator: spectrogram.New(cfg, soxClient, magickClient, logger),
		logger:    logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Run processes every configured format in sourceDir, writing images, CSVs,
// and the ledger into outputDir.
func (r *Runner) Run(ctx context.Context, sourceDir, outputDir string) (*Summary, error) {
	lock := flock.New(filepath.Join(outputDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire output directory lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("output directory %s is in use by another soundcheck run", outputDir)
	}
	defer func() { _ = lock.Unlock() }()

	summary := &Summary{SourceDir: sourceDir, OutputDir: outputDir}

	var run *runlog.Run
	if r.store != nil {
		if run, err = r.store.CreateRun(ctx, sourceDir, outputDir); err != nil {
			return nil, err
		}
		summary.RunID = run.ID
	}

	logger := r.logger
	if summary.RunID != "" {
		logger = logger.With(logging.String(logging.FieldRunID, summary.RunID))
	}

	writer := report.NewWriter(outputDir)
	defer func() { _ = writer.Close() }()

	for _, format := range r.cfg.Analysis.Formats {
		formatSummary, err := r.runFormat(ctx, logger, writer, run, format, sourceDir, outputDir)
		if err != nil {
			return nil, err
		}
		summary.Formats = append(summary.Formats, *formatSummary)
		summary.Processed += formatSummary.Files
		summary.Failed += formatSummary.Failures
		summary.Rows += formatSummary.Rows
	}

	if r.store != nil {
		run.Processed = summary.Processed
		run.Failed = summary.Failed
		run.Rows = summary.Rows
		if err := r.store.FinishRun(ctx, run); err != nil {
			return nil, err
		}
	}

	logger.Info("run finished",
		logging.Int("processed", summary.Processed),
		logging.Int("failed", summary.Failed),
		logging.Int("rows", summary.Rows),
	)
	return summary, nil
}

func (r *Runner) runFormat(ctx context.Context, logger *slog.Logger, writer *report.Writer, run *runlog.Run, format, sourceDir, outputDir string) (*FormatSummary, error) {
	formatLogger := logger.With(logging.String(logging.FieldFormat, format))

	names, err := scanner.List(sourceDir, format)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		formatLogger.Info("no files for format")
		return &FormatSummary{Format: format}, nil
	}

	summary := &FormatSummary{Format: format, Files: len(names)}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.processFile(ctx, formatLogger, writer, run, summary, format, name, sourceDir, outputDir); err != nil {
			return nil, err
		}
	}
	return summary, nil
}

// processFile walks one file through the state machine. The returned error
// is non-nil only for batch-fatal conditions; per-file failures are
// recorded and swallowed.
func (r *Runner) processFile(ctx context.Context, logger *slog.Logger, writer *report.Writer, run *runlog.Run, summary *FormatSummary, format, name, sourceDir, outputDir string) error {
	fileLogger := logger.With(logging.String(logging.FieldFile, name))
	sourcePath := filepath.Join(sourceDir, name)

	var record *runlog.FileRecord
	if r.store != nil {
		var err error
		if record, err = r.store.AddFile(ctx, run.ID, name, format); err != nil {
			return err
		}
	}

	spectrogramOK, err := r.runSpectrogramStage(ctx, fileLogger, record, sourcePath, outputDir)
	if err != nil {
		return err
	}
	if !spectrogramOK {
		summary.Failures++
	} else {
		summary.Images++
	}

	rowWritten, err := r.runMetricStage(ctx, fileLogger, writer, record, format, name, sourcePath)
	if err != nil {
		return err
	}
	if rowWritten {
		summary.Rows++
	} else if spectrogramOK {
		// Count each file at most once.
		summary.Failures++
	}

	return r.transition(ctx, record, runlog.StatusDone)
}

func (r *Runner) runSpectrogramStage(ctx context.Context, logger *slog.Logger, record *runlog.FileRecord, sourcePath, outputDir string) (bool, error) {
	stageLogger := logger.With(logging.String(logging.FieldStage, "spectrogram"))
	if err := r.transition(ctx, record, runlog.StatusSpectrogramAttempt); err != nil {
		return false, err
	}

	result, err := r.generator.Generate(ctx, sourcePath, outputDir)
	if err != nil {
		stageLogger.Warn("spectrogram failed, sidecar written", logging.Error(err))
		if record != nil {
			record.ErrorMessage = err.Error()
		}
		if err := r.transition(ctx, record, runlog.StatusSpectrogramFailed); err != nil {
			return false, err
		}
		return false, nil
	}

	switch {
	case result.CompositeFailed:
		stageLogger.Warn("composite failed, intermediate panes retained")
	case result.ZoomSkipped:
		stageLogger.Info("file shorter than zoom window, full pane only",
			logging.String("image", result.ImagePath))
	default:
		stageLogger.Debug("spectrogram written", logging.String("image", result.ImagePath))
	}
	return true, r.transition(ctx, record, runlog.StatusSpectrogramOK)
}

func (r *Runner) runMetricStage(ctx context.Context, logger *slog.Logger, writer *report.Writer, record *runlog.FileRecord, format, name, sourcePath string) (bool, error) {
	stageLogger := logger.With(logging.String(logging.FieldStage, "metric"))
	if err := r.transition(ctx, record, runlog.StatusMetricAttempt); err != nil {
		return false, err
	}

	info := media.Inspect(ctx, r.sox, sourcePath, r.cfg.Analysis.FallbackBitDepth)
	if info.BitDepthGuessed {
		stageLogger.Debug("bit depth unreadable, using fallback",
			logging.Int("fallback", info.BitDepth))
	}

	statsReport, err := r.sox.Stats(ctx, sourcePath, info.BitDepth)
	if err != nil {
		stageLogger.Warn("stats unavailable, row skipped", logging.Error(err))
		return false, r.skipRow(ctx, record, err)
	}

	metrics, err := analysis.ParseStats(statsReport)
	if err != nil {
		stageLogger.Warn("stats parse failed, row skipped",
			logging.Error(err), logging.String("report", statsReport))
		return false, r.skipRow(ctx, record, err)
	}

	crest := metrics.CrestFactorDB()
	row := report.Row{
		File:          name,
		CrestFactorDB: crest,
		PeakDB:        metrics.PeakDB,
		RMSDB:         metrics.RMSDB,
		BitDepth:      info.BitDepth,
	}
	if err := writer.Append(format, row); err != nil {
		return false, err
	}

	if record != nil {
		record.CrestFactorDB = &crest
	}
	stageLogger.Info("crest factor recorded",
		logging.Float64("crest_db", crest),
		logging.Float64("peak_db", metrics.PeakDB),
		logging.Float64("rms_db", metrics.RMSDB),
		logging.Int("bit_depth", info.BitDepth),
	)
	return true, r.transition(ctx, record, runlog.StatusRowWritten)
}

func (r *Runner) skipRow(ctx context.Context, record *runlog.FileRecord, cause error) error {
	if record != nil && record.ErrorMessage == "" {
		record.ErrorMessage = cause.Error()
	}
	return r.transition(ctx, record, runlog.StatusRowSkipped)
}

func (r *Runner) transition(ctx context.Context, record *runlog.FileRecord, to runlog.FileStatus) error {
	if r.store == nil || record == nil {
		return nil
	}
	return r.store.Transition(ctx, record, to)
}
