// Package services defines shared helpers consumed by the external tool
// clients and the batch pipeline.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent per-file outcomes (fatal vs recoverable vs skipped).
//   - Capturing external tool diagnostics so render failures can be written
//     to sidecar files next to the audio they belong to.
//
// Use these helpers when wiring new batch logic so error handling stays
// uniform across the pipeline.
package services
