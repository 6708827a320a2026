package analysis_test

import (
	"errors"
	"strings"
	"testing"

	"soundcheck/internal/analysis"
	"soundcheck/internal/services"
)

const sampleReport = `DC offset   0.000012
Min level  -0.891234
Max level   0.891302
Pk lev dB      -1.00
RMS lev dB    -14.32
RMS Pk dB     -11.02
RMS Tr dB     -80.04
Crest factor    4.63
Flat factor     0.00
Pk count           2
Bit-depth      15/16
Num samples    8.82M
Length s     200.000
Scale max   1.000000
Window s       0.050
`

func TestParseStatsExtractsLevels(t *testing.T) {
	metrics, err := analysis.ParseStats(sampleReport)
	if err != nil {
		t.Fatalf("ParseStats returned error: %v", err)
	}
	if metrics.PeakDB != -1.00 {
		t.Fatalf("unexpected peak: %v", metrics.PeakDB)
	}
	if metrics.RMSDB != -14.32 {
		t.Fatalf("unexpected RMS: %v", metrics.RMSDB)
	}
	if got := metrics.CrestFactorDB(); got != 13.32 {
		t.Fatalf("unexpected crest factor: %v", got)
	}
}

func TestParseStatsMultichannelUsesOverallColumn(t *testing.T) {
	report := strings.Join([]string{
		"             Overall     Left    Right",
		"Pk lev dB      -1.00    -1.20    -1.00",
		"RMS lev dB    -14.32   -15.10   -13.70",
	}, "\n")

	metrics, err := analysis.ParseStats(report)
	if err != nil {
		t.Fatalf("ParseStats returned error: %v", err)
	}
	if metrics.PeakDB != -1.00 || metrics.RMSDB != -14.32 {
		t.Fatalf("unexpected metrics: %+v", metrics)
	}
}

func TestParseStatsRejectsNonNumericLevels(t *testing.T) {
	cases := []struct {
		name   string
		report string
	}{
		{"inf peak", "Pk lev dB       -inf\nRMS lev dB    -14.32\n"},
		{"garbage rms", "Pk lev dB      -1.00\nRMS lev dB    n/a\n"},
		{"trailing junk", "Pk lev dB      -1.00dB\nRMS lev dB    -14.32\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := analysis.ParseStats(tc.report)
			if err == nil {
				t.Fatal("expected parse error")
			}
			if !errors.Is(err, services.ErrParse) {
				t.Fatalf("expected ErrParse, got %v", err)
			}
		})
	}
}

func TestParseStatsRequiresBothLines(t *testing.T) {
	if _, err := analysis.ParseStats("RMS lev dB    -14.32\n"); !errors.Is(err, services.ErrParse) {
		t.Fatalf("expected ErrParse for missing peak, got %v", err)
	}
	if _, err := analysis.ParseStats("Pk lev dB    -1.00\n"); !errors.Is(err, services.ErrParse) {
		t.Fatalf("expected ErrParse for missing RMS, got %v", err)
	}
}

func TestCrestFactorRounding(t *testing.T) {
	metrics := analysis.Metrics{PeakDB: -0.505, RMSDB: -12.345}
	if got := metrics.CrestFactorDB(); got != 11.84 {
		t.Fatalf("unexpected rounding: %v", got)
	}
}
