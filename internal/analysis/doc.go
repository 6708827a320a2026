// Package analysis parses SoX statistics reports and derives the crest
// factor metric written to the result CSVs.
//
// The crest factor is the ratio between a signal's peak and RMS levels.
// Both are already expressed in dB in the report, so the ratio reduces to a
// plain subtraction. Parsing is strict: a peak or RMS field that is not a
// well-formed signed decimal (for example "-inf" on digital silence) is a
// parse error, never a coerced zero.
package analysis
