// Package media inspects audio files through the soxi metadata client and
// normalizes the result for the pipeline.
package media
