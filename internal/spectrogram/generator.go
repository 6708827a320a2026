package spectrogram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"soundcheck/internal/config"
	"soundcheck/internal/logging"
	"soundcheck/internal/services"
	"soundcheck/internal/services/magick"
	"soundcheck/internal/services/sox"
)

// Result describes what Generate produced for one file.
type Result struct {
	// ImagePath is the final image, or empty when rendering failed.
	ImagePath string
	// ZoomSkipped is set when the file was shorter than offset+zoom and the
	// final image contains only the full pane.
	ZoomSkipped bool
	// CompositeFailed is set when stacking failed; the intermediate panes
	// are retained in place of a final image.
	CompositeFailed bool
}

// Generator renders spectrogram images for the batch.
type Generator struct {
	sox    sox.Client
	magick magick.Client
	logger *slog.Logger

	width       int
	sampleRate  int
	zoomSeconds float64
	zoomOffset  float64
}

// New constructs a Generator from config and tool clients.
func New(cfg *config.Config, soxClient sox.Client, magickClient magick.Client, logger *slog.Logger) *Generator {
	return &Generator{
		sox:         soxClient,
		magick:      magickClient,
		logger:      logging.NewComponentLogger(logger, "spectrogram"),
		width:       cfg.Analysis.Width,
		sampleRate:  cfg.Analysis.SampleRate,
		zoomSeconds: cfg.Analysis.ZoomSeconds,
		zoomOffset:  cfg.Analysis.ZoomOffset,
	}
}

// Generate renders the panes for sourcePath into outputDir. A rendering
// failure writes a sidecar and returns a recoverable error; a composite
// failure is reported in the Result, not as an error.
func (g *Generator) Generate(ctx context.Context, sourcePath, outputDir string) (*Result, error) {
	name := filepath.Base(sourcePath)
	base := strings.TrimSuffix(name, filepath.Ext(name))

	fullPath := filepath.Join(outputDir, base+"_full.png")
	zoomPath := filepath.Join(outputDir, base+"_zoomed.png")
	finalPath := filepath.Join(outputDir, base+".png")

	renderZoom := true
	if duration, err := g.sox.Duration(ctx, sourcePath); err != nil {
		g.logger.Debug("duration unreadable, attempting zoom pane anyway",
			logging.String(logging.FieldFile, name), logging.Error(err))
	} else if duration < g.zoomOffset+g.zoomSeconds {
		renderZoom = false
	}

	err := g.sox.Spectrogram(ctx, sox.SpectrogramRequest{
		Input:      sourcePath,
		Output:     fullPath,
		Width:      g.width,
		SampleRate: g.sampleRate,
		Title:      name,
	})
	if err != nil {
		g.writeSidecar(filepath.Join(outputDir, base+"_full.err"), err)
		return nil, services.Wrap(services.ErrExternalTool, "spectrogram", "full pane", name, err)
	}

	if !renderZoom {
		if err := os.Rename(fullPath, finalPath); err != nil {
			return nil, fmt.Errorf("finalize full-only image: %w", err)
		}
		return &Result{ImagePath: finalPath, ZoomSkipped: true}, nil
	}

	err = g.sox.Spectrogram(ctx, sox.SpectrogramRequest{
		Input:      sourcePath,
		Output:     zoomPath,
		Width:      g.width,
		SampleRate: g.sampleRate,
		Title:      fmt.Sprintf("%s (%gs from %gs)", name, g.zoomSeconds, g.zoomOffset),
		Offset:     g.zoomOffset,
		Duration:   g.zoomSeconds,
	})
	if err != nil {
		g.writeSidecar(filepath.Join(outputDir, base+"_zoomed.err"), err)
		return nil, services.Wrap(services.ErrExternalTool, "spectrogram", "zoom pane", name, err)
	}

	if err := g.magick.AppendVertical(ctx, []string{fullPath, zoomPath}, finalPath); err != nil {
		g.logger.Warn("composite failed, keeping intermediate panes",
			logging.String(logging.FieldFile, name), logging.Error(err))
		return &Result{CompositeFailed: true}, nil
	}

	for _, intermediate := range []string{fullPath, zoomPath} {
		if err := os.Remove(intermediate); err != nil {
			g.logger.Warn("remove intermediate pane",
				logging.String("path", intermediate), logging.Error(err))
		}
	}
	return &Result{ImagePath: finalPath}, nil
}

func (g *Generator) writeSidecar(path string, err error) {
	var renderErr *sox.RenderError
	output := []byte(err.Error() + "\n")
	if errors.As(err, &renderErr) && len(renderErr.Output) > 0 {
		output = renderErr.Output
	}
	if writeErr := os.WriteFile(path, output, 0o644); writeErr != nil {
		g.logger.Warn("write error sidecar", logging.String("path", path), logging.Error(writeErr))
	}
}
