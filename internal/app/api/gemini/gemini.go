package gemini

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	apperrors "whisper-batch/internal/app/errors"
)

const defaultPrompt = "Generate a verbatim transcript of this audio. Return only the transcript text, without timestamps or commentary."

// maxInlineBytes is the inline request limit; larger audio would need the Files API.
const maxInlineBytes = 20 * 1024 * 1024

// Config holds the model and prompt settings.
type Config struct {
	APIKey string
	Model  string
	Prompt string
}

type generateFunc func(ctx context.Context, model string, contents []*genai.Content) (*genai.GenerateContentResponse, error)

// Transcriber asks a Gemini model to transcribe inline WAV audio.
type Transcriber struct {
	cfg      Config
	generate generateFunc
}

// NewTranscriber creates the Gemini client.
func NewTranscriber(ctx context.Context, cfg Config) (*Transcriber, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.Prompt == "" {
		cfg.Prompt = defaultPrompt
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Transcriber{
		cfg: cfg,
		generate: func(ctx context.Context, model string, contents []*genai.Content) (*genai.GenerateContentResponse, error) {
			return client.Models.GenerateContent(ctx, model, contents, &genai.GenerateContentConfig{
				Temperature: genai.Ptr[float32](0),
			})
		},
	}, nil
}

// Describe implements api.Describer.
func (t *Transcriber) Describe() string {
	return "gemini " + t.cfg.Model
}

// Transcript implements api.Transcriber.
func (t *Transcriber) Transcript(ctx context.Context, inputFilePath string) (string, error) {
	data, err := os.ReadFile(inputFilePath)
	if err != nil {
		return "", apperrors.Wrapf(apperrors.ErrTranscriptionFailed, "read audio: %v", err)
	}
	if len(data) > maxInlineBytes {
		return "", apperrors.Wrapf(apperrors.ErrTranscriptionFailed,
			"%s is %d bytes, above the %d byte inline audio limit", inputFilePath, len(data), maxInlineBytes)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(t.cfg.Prompt),
			genai.NewPartFromBytes(data, "audio/wav"),
		}, genai.RoleUser),
	}

	resp, err := t.generate(ctx, t.cfg.Model, contents)
	if err != nil {
		return "", apperrors.Wrapf(apperrors.ErrTranscriptionFailed, "gemini generate content: %v", err)
	}
	return collectText(resp), nil
}

// collectText joins the text parts of the first candidate.
func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}
