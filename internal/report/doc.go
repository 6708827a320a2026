// Package report appends crest factor rows to per-format CSV files.
//
// Each format owns an independent CSV in the output directory, created
// lazily with a fixed header the first time a row is written. Existing files
// are only ever appended to, so reruns accumulate rows and never rewrite the
// header or earlier results.
package report
