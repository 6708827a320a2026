package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"soundcheck/internal/logging"
	"soundcheck/internal/pipeline"
	"soundcheck/internal/preflight"
	"soundcheck/internal/runlog"
	"soundcheck/internal/services/magick"
	"soundcheck/internal/services/sox"
)

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var width int
	var zoom float64
	var offset float64

	cmd := &cobra.Command{
		Use:   "analyze [SOURCE_DIR] [OUTPUT_DIR]",
		Short: "Render spectrograms and compute crest factors for a directory",
		Long: `Analyze renders a stacked full+zoom spectrogram PNG and appends a
crest-factor CSV row for every matching audio file in SOURCE_DIR.
SOURCE_DIR defaults to the current directory; OUTPUT_DIR defaults to
SOURCE_DIR and is created when missing.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("width") {
				cfg.Analysis.Width = width
			}
			if cmd.Flags().Changed("zoom") {
				cfg.Analysis.ZoomSeconds = zoom
			}
			if cmd.Flags().Changed("offset") {
				cfg.Analysis.ZoomOffset = offset
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			sourceDir, outputDir, err := resolveRunDirectories(args)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			checks := preflight.RunAll(cfg, sourceDir, outputDir)
			if failed := preflight.Failed(checks); len(failed) > 0 {
				for _, check := range failed {
					fmt.Fprintf(cmd.ErrOrStderr(), "preflight: %s: %s\n", check.Name, check.Detail)
				}
				return fmt.Errorf("%d preflight check(s) failed", len(failed))
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			store, err := runlog.Open(cfg)
			if err != nil {
				logger.Warn("run ledger unavailable, continuing without history",
					logging.Error(err))
				store = nil
			} else {
				defer store.Close()
			}

			soxClient := sox.NewCLI(
				sox.WithBinary(cfg.Tools.Sox),
				sox.WithInfoBinary(cfg.Tools.Soxi),
			)
			magickClient := magick.NewCLI(magick.WithBinary(cfg.Tools.Magick))

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			runner := pipeline.New(cfg, store, soxClient, magickClient, logger)
			summary, err := runner.Run(runCtx, sourceDir, outputDir)
			if err != nil {
				return err
			}

			printRunSummary(out, summary, shouldStyle(out))
			return nil
		},
	}

	cmd.Flags().IntVarP(&width, "width", "w", 3200, "Spectrogram width in pixels")
	cmd.Flags().Float64VarP(&zoom, "zoom", "z", 2, "Zoom window length in seconds")
	cmd.Flags().Float64VarP(&offset, "offset", "o", 0, "Zoom window start offset in seconds")
	return cmd
}

// resolveRunDirectories applies the positional-argument defaults: the source
// defaults to the working directory and the output to the source. The source
// must already exist; the output is created on demand.
func resolveRunDirectories(args []string) (string, string, error) {
	sourceDir := "."
	if len(args) > 0 && args[0] != "" {
		sourceDir = args[0]
	}
	sourceDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", "", fmt.Errorf("resolve source directory: %w", err)
	}
	info, err := os.Stat(sourceDir)
	if err != nil {
		return "", "", fmt.Errorf("source directory %s: %w", sourceDir, err)
	}
	if !info.IsDir() {
		return "", "", fmt.Errorf("source path %s is not a directory", sourceDir)
	}

	outputDir := sourceDir
	if len(args) > 1 && args[1] != "" {
		if outputDir, err = filepath.Abs(args[1]); err != nil {
			return "", "", fmt.Errorf("resolve output directory: %w", err)
		}
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", "", fmt.Errorf("create output directory %s: %w", outputDir, err)
	}
	return sourceDir, outputDir, nil
}

func printRunSummary(out io.Writer, summary *pipeline.Summary, styled bool) {
	rows := make([][]string, 0, len(summary.Formats))
	for _, format := range summary.Formats {
		rows = append(rows, []string{
			format.Format,
			strconv.Itoa(format.Files),
			strconv.Itoa(format.Images),
			strconv.Itoa(format.Rows),
			strconv.Itoa(format.Failures),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Format", "Files", "Images", "Rows", "Failures"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
		styled,
	))
	fmt.Fprintf(out, "Processed %d file(s), %d failure(s), %d CSV row(s) in %s\n",
		summary.Processed, summary.Failed, summary.Rows, summary.OutputDir)
	if summary.RunID != "" {
		fmt.Fprintf(out, "Run id: %s\n", summary.RunID)
	}
}
