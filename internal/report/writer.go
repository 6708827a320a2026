package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

var header = []string{"File", "Crest Factor (dB)", "Peak (dB)", "RMS (dB)", "Bit Depth"}

// Row is one processed file's metric record.
type Row struct {
	File          string
	CrestFactorDB float64
	PeakDB        float64
	RMSDB         float64
	BitDepth      int
}

// FileName returns the CSV file name used for a format.
func FileName(format string) string {
	return "crest_factor_" + format + ".csv"
}

// Writer owns the lazily created per-format CSV files of one output
// directory. It is not safe for concurrent use; the batch is sequential.
type Writer struct {
	dir   string
	files map[string]*csvFile
}

type csvFile struct {
	handle *os.File
	writer *csv.Writer
}

// NewWriter creates a Writer rooted at dir. No file is touched until the
// first Append for a format.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, files: make(map[string]*csvFile)}
}

// Append writes one row to the format's CSV, creating the file with its
// header first when needed.
func (w *Writer) Append(format string, row Row) error {
	file, err := w.fileFor(format)
	if err != nil {
		return err
	}

	record := []string{
		row.File,
		strconv.FormatFloat(row.CrestFactorDB, 'f', 2, 64),
		strconv.FormatFloat(row.PeakDB, 'f', 2, 64),
		strconv.FormatFloat(row.RMSDB, 'f', 2, 64),
		strconv.Itoa(row.BitDepth),
	}
	if err := file.writer.Write(record); err != nil {
		return fmt.Errorf("append csv row: %w", err)
	}
	file.writer.Flush()
	if err := file.writer.Error(); err != nil {
		return fmt.Errorf("flush csv row: %w", err)
	}
	return nil
}

func (w *Writer) fileFor(format string) (*csvFile, error) {
	if file, ok := w.files[format]; ok {
		return file, nil
	}

	path := filepath.Join(w.dir, FileName(format))
	handle, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open csv %s: %w", path, err)
	}

	info, err := handle.Stat()
	if err != nil {
		_ = handle.Close()
		return nil, fmt.Errorf("stat csv %s: %w", path, err)
	}

	file := &csvFile{handle: handle, writer: csv.NewWriter(handle)}
	if info.Size() == 0 {
		if err := file.writer.Write(header); err != nil {
			_ = handle.Close()
			return nil, fmt.Errorf("write csv header: %w", err)
		}
		file.writer.Flush()
		if err := file.writer.Error(); err != nil {
			_ = handle.Close()
			return nil, fmt.Errorf("flush csv header: %w", err)
		}
	}

	w.files[format] = file
	return file, nil
}

// Close flushes and closes every CSV opened during the run.
func (w *Writer) Close() error {
	var firstErr error
	for format, file := range w.files {
		file.writer.Flush()
		if err := file.writer.Error(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("flush csv for %s: %w", format, err)
		}
		if err := file.handle.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close csv for %s: %w", format, err)
		}
		delete(w.files, format)
	}
	return firstErr
}
