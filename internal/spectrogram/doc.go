// Package spectrogram renders the stacked full+zoom spectrogram image for
// one audio file.
//
// The full pane always covers the whole file; the zoom pane covers a small
// configured window and is skipped entirely when the file is shorter than
// the window. Rendering failures write the tool's diagnostics to a sidecar
// .err file next to the audio and skip the file; a failed composite keeps
// the intermediate panes instead of aborting the batch.
package spectrogram
