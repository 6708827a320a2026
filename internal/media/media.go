package media

import (
	"context"
)

// Prober exposes the metadata queries Inspect depends on. The sox CLI
// client satisfies it.
type Prober interface {
	BitDepth(ctx context.Context, path string) (int, error)
	Duration(ctx context.Context, path string) (float64, error)
}

// Info is the normalized metadata for one audio file.
type Info struct {
	BitDepth        int
	BitDepthGuessed bool
	DurationSeconds float64
	DurationKnown   bool
}

// Inspect probes path for bit depth and duration. Metadata failures are
// absorbed: an unreadable bit depth falls back to fallbackBitDepth and an
// unreadable duration is flagged rather than returned as an error, so a
// half-broken file can still flow through the rest of the pipeline.
func Inspect(ctx context.Context, probe Prober, path string, fallbackBitDepth int) Info {
	info := Info{BitDepth: fallbackBitDepth, BitDepthGuessed: true}

	if depth, err := probe.BitDepth(ctx, path); err == nil && depth > 0 {
		info.BitDepth = depth
		info.BitDepthGuessed = false
	}
	if seconds, err := probe.Duration(ctx, path); err == nil && seconds > 0 {
		info.DurationSeconds = seconds
		info.DurationKnown = true
	}
	return info
}
