package google_speech

import (
	"context"
	"fmt"
	"os"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"

	apperrors "whisper-batch/internal/app/errors"
)

// maxInlineBytes is the request size limit for inline audio content.
const maxInlineBytes = 10 * 1024 * 1024

// Config holds the recognition settings.
type Config struct {
	LanguageCode    string
	Model           string
	SampleRateHertz int32
	Punctuation     bool
	CredentialsFile string
}

type recognizeFunc func(ctx context.Context, req *speechpb.LongRunningRecognizeRequest) ([]*speechpb.SpeechRecognitionResult, error)

// Transcriber sends 16 kHz LINEAR16 WAV audio to Google Cloud Speech-to-Text.
type Transcriber struct {
	cfg       Config
	client    *speech.Client
	recognize recognizeFunc
}

// NewTranscriber creates the speech client. Credentials come from the file
// when set, else from application default credentials.
func NewTranscriber(ctx context.Context, cfg Config) (*Transcriber, error) {
	cfg = withDefaults(cfg)

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech client: %w", err)
	}

	t := &Transcriber{cfg: cfg, client: client}
	t.recognize = func(ctx context.Context, req *speechpb.LongRunningRecognizeRequest) ([]*speechpb.SpeechRecognitionResult, error) {
		op, err := client.LongRunningRecognize(ctx, req)
		if err != nil {
			return nil, err
		}
		resp, err := op.Wait(ctx)
		if err != nil {
			return nil, err
		}
		return resp.GetResults(), nil
	}
	return t, nil
}

func withDefaults(cfg Config) Config {
	if cfg.LanguageCode == "" {
		cfg.LanguageCode = "en-US"
	}
	if cfg.SampleRateHertz == 0 {
		cfg.SampleRateHertz = 16000
	}
	return cfg
}

// Describe implements api.Describer.
func (t *Transcriber) Describe() string {
	return fmt.Sprintf("google_speech %s", t.cfg.LanguageCode)
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

	results, err := t.recognize(ctx, t.buildRequest(data))
	if err != nil {
		return "", apperrors.Wrapf(apperrors.ErrTranscriptionFailed, "speech recognize: %v", err)
	}
	return joinResults(results), nil
}

func (t *Transcriber) buildRequest(data []byte) *speechpb.LongRunningRecognizeRequest {
	return &speechpb.LongRunningRecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:            t.cfg.SampleRateHertz,
			AudioChannelCount:          1,
			LanguageCode:               t.cfg.LanguageCode,
			Model:                      t.cfg.Model,
			EnableAutomaticPunctuation: t.cfg.Punctuation,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: data},
		},
	}
}

// joinResults concatenates the top alternative of each result.
func joinResults(results []*speechpb.SpeechRecognitionResult) string {
	parts := make([]string, 0, len(results))
	for _, result := range results {
		alts := result.GetAlternatives()
		if len(alts) == 0 {
			continue
		}
		if text := strings.TrimSpace(alts[0].GetTranscript()); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// Close releases the gRPC connection.
func (t *Transcriber) Close() error {
	if t.client == nil {
		return nil
	}
	return t.client.Close()
}
