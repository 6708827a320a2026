package media

import (
	"context"
	"errors"
	"testing"
)

type stubProber struct {
	depth       int
	depthErr    error
	duration    float64
	durationErr error
}

func (s stubProber) BitDepth(ctx context.Context, path string) (int, error) {
	return s.depth, s.depthErr
}

func (s stubProber) Duration(ctx context.Context, path string) (float64, error) {
	return s.duration, s.durationErr
}

func TestInspectReadsMetadata(t *testing.T) {
	info := Inspect(context.Background(), stubProber{depth: 24, duration: 181.5}, "a.flac", 16)
	if info.BitDepth != 24 || info.BitDepthGuessed {
		t.Fatalf("unexpected bit depth: %+v", info)
	}
	if !info.DurationKnown || info.DurationSeconds != 181.5 {
		t.Fatalf("unexpected duration: %+v", info)
	}
}

func TestInspectFallsBackOnErrors(t *testing.T) {
	probe := stubProber{depthErr: errors.New("soxi: boom"), durationErr: errors.New("soxi: boom")}
	info := Inspect(context.Background(), probe, "a.flac", 16)
	if info.BitDepth != 16 || !info.BitDepthGuessed {
		t.Fatalf("expected fallback bit depth, got %+v", info)
	}
	if info.DurationKnown {
		t.Fatalf("duration should be unknown, got %+v", info)
	}
}

func TestInspectRejectsZeroDepth(t *testing.T) {
	info := Inspect(context.Background(), stubProber{depth: 0}, "a.wav", 16)
	if info.BitDepth != 16 || !info.BitDepthGuessed {
		t.Fatalf("zero depth must fall back, got %+v", info)
	}
}
