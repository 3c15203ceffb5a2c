package api

import "context"

// Transcriber defines a transcription interface for converting audio files to text.
// Every provider returns the same shape: the transcript, or an error.
type Transcriber interface {
	Transcript(ctx context.Context, inputFilePath string) (string, error)
}

// Describer is implemented by providers that can name the engine and settings
// they run with, e.g. "faster_whisper small cuda/float16".
type Describer interface {
	Describe() string
}

// Describe returns t's description, or fallback when t does not implement Describer.
func Describe(t Transcriber, fallback string) string {
	if d, ok := t.(Describer); ok {
		if s := d.Describe(); s != "" {
			return s
		}
	}
	return fallback
}
