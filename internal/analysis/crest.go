package analysis

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"soundcheck/internal/services"
)

// Report labels emitted by the sox stats effect.
const (
	peakLabel = "Pk lev dB"
	rmsLabel  = "RMS lev dB"
)

var signedDecimal = regexp.MustCompile(`^-?[0-9]+(?:\.[0-9]+)?$`)

// Metrics holds the levels parsed from one statistics report.
type Metrics struct {
	PeakDB float64
	RMSDB  float64
}

// CrestFactorDB returns peak minus RMS rounded to two decimal places, the
// precision recorded in the CSV.
func (m Metrics) CrestFactorDB() float64 {
	return math.Round((m.PeakDB-m.RMSDB)*100) / 100
}

// ParseStats extracts the peak and RMS levels from a sox stats report. On a
// multichannel report the first value column (the overall mix) is used.
func ParseStats(report string) (Metrics, error) {
	var metrics Metrics
	var havePeak, haveRMS bool

	for _, line := range strings.Split(report, "\n") {
		switch {
		case strings.HasPrefix(line, peakLabel):
			value, err := parseLevel(line, peakLabel)
			if err != nil {
				return Metrics{}, err
			}
			if !havePeak {
				metrics.PeakDB = value
				havePeak = true
			}
		case strings.HasPrefix(line, rmsLabel):
			value, err := parseLevel(line, rmsLabel)
			if err != nil {
				return Metrics{}, err
			}
			if !haveRMS {
				metrics.RMSDB = value
				haveRMS = true
			}
		}
	}

	if !havePeak {
		return Metrics{}, services.Wrap(services.ErrParse, "analysis", "stats", "peak level line missing", nil)
	}
	if !haveRMS {
		return Metrics{}, services.Wrap(services.ErrParse, "analysis", "stats", "RMS level line missing", nil)
	}
	return metrics, nil
}

func parseLevel(line, label string) (float64, error) {
	fields := strings.Fields(strings.TrimSpace(strings.TrimPrefix(line, label)))
	if len(fields) == 0 {
		return 0, services.Wrap(services.ErrParse, "analysis", "stats", label+" line has no value", nil)
	}
	raw := fields[0]
	if !signedDecimal.MatchString(raw) {
		return 0, services.Wrap(services.ErrParse, "analysis", "stats", label+" is not a signed decimal: "+strconv.Quote(raw), nil)
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, services.Wrap(services.ErrParse, "analysis", "stats", label, err)
	}
	return value, nil
}
