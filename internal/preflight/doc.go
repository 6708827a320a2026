// Package preflight provides readiness checks for the filesystem paths
// and external binaries a batch run depends on.
//
// These checks run in two contexts:
//   - The analyze command calls RunAll before touching any audio file.
//     If a required check fails, the run aborts before wasting time on
//     spectrograms that can never be written.
//   - The CLI "soundcheck deps" command uses CheckTools to display
//     binary availability on its own.
package preflight
