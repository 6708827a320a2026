package runlog

import "time"

// FileStatus represents the lifecycle of one file within a run.
type FileStatus string

const (
	StatusPending            FileStatus = "pending"
	StatusSpectrogramAttempt FileStatus = "spectrogram_attempted"
	StatusSpectrogramOK      FileStatus = "spectrogram_ok"
	StatusSpectrogramFailed  FileStatus = "spectrogram_failed"
	StatusMetricAttempt      FileStatus = "metric_attempted"
	StatusRowWritten         FileStatus = "row_written"
	StatusRowSkipped         FileStatus = "row_skipped"
	StatusDone               FileStatus = "done"
)

var transitions = map[FileStatus][]FileStatus{
	StatusPending:            {StatusSpectrogramAttempt},
	StatusSpectrogramAttempt: {StatusSpectrogramOK, StatusSpectrogramFailed},
	StatusSpectrogramOK:      {StatusMetricAttempt},
	StatusSpectrogramFailed:  {StatusMetricAttempt, StatusDone},
	StatusMetricAttempt:      {StatusRowWritten, StatusRowSkipped},
	StatusRowWritten:         {StatusDone},
	StatusRowSkipped:         {StatusDone},
}

// CanTransition reports whether moving from one status to another is a legal
// step of the state machine. No status is ever revisited within a run.
func CanTransition(from, to FileStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Run is one batch invocation.
type Run struct {
	ID         string
	SourceDir  string
	OutputDir  string
	StartedAt  time.Time
	FinishedAt *time.Time
	Processed  int
	Failed     int
	Rows       int
}

// FileRecord is one file's outcome within a run.
type FileRecord struct {
	ID            int64
	RunID         string
	Name          string
	Format        string
	Status        FileStatus
	CrestFactorDB *float64
	ErrorMessage  string
	UpdatedAt     time.Time
}
