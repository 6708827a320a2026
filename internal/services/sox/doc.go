// Package sox wraps the SoX command-line toolkit.
//
// It exposes the three capabilities the batch needs: textual statistics
// reports (peak and RMS levels in dB), file metadata via soxi (bit depth,
// duration, sample rate), and spectrogram rendering with resampling and an
// optional time window. SoX itself is treated as a black box; this package
// only builds argument lists and captures output.
package sox
