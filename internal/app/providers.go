package app

import (
	"time"

	"github.com/google/wire"
	"go.uber.org/zap"

	v1services "whisper-batch/internal/api/v1/services"
	"whisper-batch/internal/app/api"
	"whisper-batch/internal/app/api/provider"
	"whisper-batch/internal/app/audio"
	"whisper-batch/internal/app/batch"
	"whisper-batch/internal/app/util/files"

	// registered providers
	_ "whisper-batch/internal/app/api/faster_whisper"
	_ "whisper-batch/internal/app/api/gemini"
	_ "whisper-batch/internal/app/api/google_speech"
	_ "whisper-batch/internal/app/api/openai/whisper"
	_ "whisper-batch/internal/app/api/remote"
	_ "whisper-batch/internal/app/api/whisper_cpp"
)

// ProviderOptions names a registered provider and the settings it is built with.
type ProviderOptions struct {
	Name     string
	Settings provider.Settings
}

// OutputDir is where the batch writer puts transcripts.
type OutputDir string

// RunnerExtras are the optional batch collaborators. Nil fields are skipped.
type RunnerExtras struct {
	Recorder   batch.Recorder
	Metrics    batch.Metrics
	Progress   *batch.ProgressManager
	YieldDelay time.Duration
	// Extensions replaces the default audio extensions when non-empty.
	Extensions files.ExtensionSet
}

// BatchApp is everything a batch command needs.
type BatchApp struct {
	Runner   *batch.Runner
	Pipeline *api.Pipeline
}

// ServeApp is everything the upload server needs.
type ServeApp struct {
	Pipeline  *api.Pipeline
	Uploads   v1services.UploadService
	Providers v1services.ProviderService
}

// ProvideHandle memoizes provider construction for the process.
func ProvideHandle(opts ProviderOptions) *provider.Handle {
	return provider.NewHandle(opts.Name, opts.Settings)
}

// ProvideNormalizer converts with ffmpeg into the system temp dir.
func ProvideNormalizer() audio.Normalizer {
	return audio.NewFFmpegNormalizer("")
}

// ProvideWriter writes transcripts under dir.
func ProvideWriter(dir OutputDir) batch.ResultWriter {
	return batch.NewFileWriter(string(dir))
}

// ProvideRunner builds the runner with whichever extras are set.
func ProvideRunner(pipeline *api.Pipeline, writer batch.ResultWriter, logger *zap.Logger, extras RunnerExtras) *batch.Runner {
	opts := []batch.Option{batch.WithYieldDelay(extras.YieldDelay)}
	if extras.Recorder != nil {
		opts = append(opts, batch.WithRecorder(extras.Recorder))
	}
	if extras.Metrics != nil {
		opts = append(opts, batch.WithMetrics(extras.Metrics))
	}
	if extras.Progress != nil {
		opts = append(opts, batch.WithProgress(extras.Progress))
	}
	if len(extras.Extensions) > 0 {
		opts = append(opts, batch.WithExtensions(extras.Extensions))
	}
	return batch.NewRunner(pipeline, writer, logger, opts...)
}

// PipelineSet builds the shared single-file pipeline.
var PipelineSet = wire.NewSet(
	ProvideHandle,
	wire.Bind(new(api.Transcriber), new(*provider.Handle)),
	ProvideNormalizer,
	api.NewPipeline,
)

// BatchSet adds the writer and runner.
var BatchSet = wire.NewSet(
	PipelineSet,
	ProvideWriter,
	ProvideRunner,
	wire.Struct(new(BatchApp), "*"),
)

// ServeSet adds the upload and provider services.
var ServeSet = wire.NewSet(
	PipelineSet,
	wire.Bind(new(v1services.Pipeline), new(*api.Pipeline)),
	v1services.NewUploadService,
	v1services.NewProviderService,
	wire.Struct(new(ServeApp), "*"),
)
