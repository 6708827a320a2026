package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"soundcheck/internal/config"
)

// Tool is the logical name of an external dependency.
type Tool string

const (
	ToolSox    Tool = "sox"
	ToolSoxi   Tool = "soxi"
	ToolMagick Tool = "magick"
)

// Requirement defines an external dependency soundcheck relies on.
type Requirement struct {
	Tool        Tool
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Tool        Tool
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Required returns the requirements for a batch run, honouring binary
// overrides from the config.
func Required(cfg *config.Config) []Requirement {
	sox, soxi, magick := "sox", "soxi", "magick"
	if cfg != nil {
		sox = cfg.Tools.Sox
		soxi = cfg.Tools.Soxi
		magick = cfg.Tools.Magick
	}
	return []Requirement{
		{Tool: ToolSox, Command: sox, Description: "Audio statistics, resampling, and spectrogram rendering"},
		{Tool: ToolSoxi, Command: soxi, Description: "Audio metadata queries (bit depth, duration)"},
		{Tool: ToolMagick, Command: magick, Description: "Vertical stacking of spectrogram panes"},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Tool:        req.Tool,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Missing filters statuses down to unavailable required tools.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status)
		}
	}
	return missing
}
