package api

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"whisper-batch/internal/app/audio"
	apperrors "whisper-batch/internal/app/errors"
	"whisper-batch/internal/app/model"
)

// Pipeline is the single-file transcription path shared by the batch runner and
// the upload service: normalize to WAV, then call the provider.
type Pipeline struct {
	normalizer  audio.Normalizer
	transcriber Transcriber
	logger      *zap.Logger
}

// NewPipeline creates a pipeline. A nil logger disables logging.
func NewPipeline(normalizer audio.Normalizer, transcriber Transcriber, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		normalizer:  normalizer,
		transcriber: transcriber,
		logger:      logger,
	}
}

// Describe names the provider behind the pipeline.
func (p *Pipeline) Describe() string {
	return Describe(p.transcriber, "unknown")
}

// TranscribeFile runs the pipeline on a path outside any discovery root.
func (p *Pipeline) TranscribeFile(ctx context.Context, path string) model.TranscriptionResult {
	return p.Transcribe(ctx, model.NewAudioFileRef("", path))
}

// Transcribe never returns an error: every failure is reported in the result's Kind.
func (p *Pipeline) Transcribe(ctx context.Context, ref model.AudioFileRef) (result model.TranscriptionResult) {
	start := time.Now()
	defer func() {
		result.Duration = time.Since(start)
		result.Provider = p.Describe()
	}()

	wavPath, cleanup, err := p.normalizer.ToWAV(ctx, ref.Path)
	if err != nil {
		return model.Failed(ref, apperrors.KindConversionFailed, err.Error())
	}
	defer cleanup()

	text, err := p.callProvider(ctx, wavPath)
	if err != nil {
		return model.Failed(ref, apperrors.KindOf(err), err.Error())
	}
	return model.Succeeded(ref, text)
}

func (p *Pipeline) callProvider(ctx context.Context, wavPath string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("provider panicked", zap.String("file", wavPath), zap.Any("panic", r))
			err = apperrors.Wrapf(apperrors.ErrTranscriptionFailed, "provider panic: %v", r)
		}
	}()

	return p.transcriber.Transcript(ctx, wavPath)
}

// String is used in log lines.
func (p *Pipeline) String() string {
	return fmt.Sprintf("pipeline(%s)", p.Describe())
}

// Close releases the provider when it holds resources such as a worker process.
func (p *Pipeline) Close() error {
	if c, ok := p.transcriber.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
