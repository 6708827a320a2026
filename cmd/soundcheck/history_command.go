package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"soundcheck/internal/runlog"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [RUN_ID]",
		Short: "Show recent analysis runs from the ledger",
		Long: `History lists recent runs recorded in the run ledger. Passing a run id
shows the per-file outcomes of that run instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := runlog.Open(cfg)
			if err != nil {
				return fmt.Errorf("open run ledger: %w", err)
			}
			defer store.Close()

			if len(args) == 1 {
				return printRunFiles(cmd, store, args[0])
			}
			return printRecentRuns(cmd, store, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of runs to list")
	return cmd
}

func printRecentRuns(cmd *cobra.Command, store *runlog.Store, limit int) error {
	runs, err := store.RecentRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		finished := "running"
		if run.FinishedAt != nil {
			finished = run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String()
		}
		rows = append(rows, []string{
			run.ID,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			finished,
			run.SourceDir,
			strconv.Itoa(run.Processed),
			strconv.Itoa(run.Failed),
			strconv.Itoa(run.Rows),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Run", "Started", "Took", "Source", "Files", "Failed", "Rows"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignRight, alignRight},
		shouldStyle(out),
	))
	return nil
}

func printRunFiles(cmd *cobra.Command, store *runlog.Store, runID string) error {
	files, err := store.FilesForRun(cmd.Context(), runID)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(files) == 0 {
		fmt.Fprintf(out, "No files recorded for run %s\n", runID)
		return nil
	}

	rows := make([][]string, 0, len(files))
	for _, file := range files {
		crest := ""
		if file.CrestFactorDB != nil {
			crest = strconv.FormatFloat(*file.CrestFactorDB, 'f', 2, 64)
		}
		rows = append(rows, []string{
			file.Name,
			file.Format,
			string(file.Status),
			crest,
			file.ErrorMessage,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"File", "Format", "Status", "Crest (dB)", "Error"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
		shouldStyle(out),
	))
	return nil
}
