// Package magick wraps the ImageMagick command-line tool for vertically
// stacking spectrogram panes into a single image.
package magick
