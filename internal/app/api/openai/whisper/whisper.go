package whisper

import (
	"context"

	"github.com/sashabaranov/go-openai"

	apperrors "whisper-batch/internal/app/errors"
)

// Config holds the transcription request options.
type Config struct {
	Model       string
	Language    string
	Prompt      string
	Temperature float32
}

// RemoteTranscriber implements remote transcription using the OpenAI API.
type RemoteTranscriber struct {
	client *openai.Client
	cfg    Config
}

// NewRemoteTranscriber creates a new RemoteTranscriber instance.
func NewRemoteTranscriber(client *openai.Client, cfg Config) *RemoteTranscriber {
	if cfg.Model == "" {
		cfg.Model = openai.Whisper1
	}
	return &RemoteTranscriber{client: client, cfg: cfg}
}

// Describe implements api.Describer.
func (rt *RemoteTranscriber) Describe() string {
	return "openai " + rt.cfg.Model
}

// Transcript uses the OpenAI API for remote transcription.
func (rt *RemoteTranscriber) Transcript(ctx context.Context, inputFilePath string) (string, error) {
	req := openai.AudioRequest{
		Model:       rt.cfg.Model,
		FilePath:    inputFilePath,
		Language:    rt.cfg.Language,
		Prompt:      rt.cfg.Prompt,
		Temperature: rt.cfg.Temperature,
	}
	resp, err := rt.client.CreateTranscription(ctx, req)
	if err != nil {
		return "", apperrors.Wrapf(apperrors.ErrTranscriptionFailed, "createTranscription failed: %s", err)
	}

	return resp.Text, nil
}
