package services

import (
	"context"
	"io"

	"whisper-batch/internal/api/v1/dto"
	"whisper-batch/internal/app/model"
)

// UploadRequest is one uploaded audio segment.
type UploadRequest struct {
	ClientID string
	Segment  string
	Body     io.Reader
}

// UploadService stores an upload, transcribes it and removes it.
type UploadService interface {
	Transcribe(ctx context.Context, req UploadRequest) (*dto.UploadResponse, error)
}

// ProviderService reports on the transcription providers.
type ProviderService interface {
	ListProviders(ctx context.Context) (*dto.ProvidersResponse, error)
}

// Pipeline is the single-file transcription path.
type Pipeline interface {
	TranscribeFile(ctx context.Context, path string) model.TranscriptionResult
	Describe() string
}
