package model

import (
	"strings"
	"time"

	apperrors "whisper-batch/internal/app/errors"
)

// TranscriptionResult is the outcome of one transcription attempt.
// Exactly one of Text or (Kind, Detail) is meaningful: a result is ok when Kind is empty.
type TranscriptionResult struct {
	Source   AudioFileRef
	Text     string
	Kind     apperrors.Kind
	Detail   string
	Provider string
	Duration time.Duration
}

// Ok reports whether the attempt produced usable text.
func (r TranscriptionResult) Ok() bool {
	return r.Kind == "" && strings.TrimSpace(r.Text) != ""
}

// Succeeded builds an ok result. Blank text is downgraded to EmptyResult.
func Succeeded(ref AudioFileRef, text string) TranscriptionResult {
	text = strings.TrimSpace(text)
	if text == "" {
		return Failed(ref, apperrors.KindEmptyResult, "empty transcription")
	}
	return TranscriptionResult{Source: ref, Text: text}
}

// Failed builds a failure result of the given kind.
func Failed(ref AudioFileRef, kind apperrors.Kind, detail string) TranscriptionResult {
	return TranscriptionResult{Source: ref, Kind: kind, Detail: detail}
}

// Err returns the failure as an error wrapping the kind's sentinel, or nil when ok.
func (r TranscriptionResult) Err() error {
	if r.Ok() {
		return nil
	}
	kind := r.Kind
	if kind == "" {
		kind = apperrors.KindEmptyResult
	}
	return apperrors.Wrap(apperrors.Sentinel(kind), r.Detail)
}
