// Package logging assembles structured slog loggers shared across soundcheck.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes attr helpers so batch code tags log lines with run
// IDs, file names, and stages consistently. The package also provides a
// no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape.
package logging
