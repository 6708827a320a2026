// Package scanner enumerates the audio files a batch run visits.
//
// Matching is by extension, non-recursive, and tolerant of empty results: a
// directory with no files of a format is not an error, the batch simply
// moves on to the next format. Results are ordered with numeric-aware
// collation so "track2" sorts before "track10", keeping CSV rows and logs in
// the order a human expects.
package scanner
