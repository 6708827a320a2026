// Package pipeline drives a batch run: enumerate files per format, render
// spectrograms, compute crest factors, and record every outcome in the CSVs
// and the run ledger.
//
// Processing is strictly sequential; one file fully completes before the
// next begins. Failures are per-file: a render or parse problem marks that
// file and the batch moves on. Only environmental errors (unreadable source
// directory, a ledger or CSV that cannot be written, a held lock) abort the
// run.
package pipeline
