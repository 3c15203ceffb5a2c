package batch

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "whisper-batch/internal/app/errors"
	"whisper-batch/internal/app/model"
	"whisper-batch/internal/app/util/files"
)

// Transcriber turns one file into a result. *api.Pipeline satisfies it.
type Transcriber interface {
	Transcribe(ctx context.Context, ref model.AudioFileRef) model.TranscriptionResult
}

// Recorder stores per-item outcomes. *repository history DAOs satisfy it.
type Recorder interface {
	RecordOutcome(record model.OutcomeRecord) error
}

// Metrics observes per-item outcomes.
type Metrics interface {
	ItemProcessed(outcome string, duration time.Duration)
}

// OutcomeSucceeded is the metrics label for a written transcript.
const OutcomeSucceeded = "succeeded"

// Option configures a Runner.
type Option func(*Runner)

// WithYieldDelay pauses between items. Zero disables the pause.
func WithYieldDelay(d time.Duration) Option {
	return func(r *Runner) { r.yieldDelay = d }
}

// WithRecorder records every item outcome.
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

// WithMetrics reports every item outcome.
func WithMetrics(m Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithProgress draws a progress bar per pass.
func WithProgress(pm *ProgressManager) Option {
	return func(r *Runner) { r.progress = pm }
}

// WithExtensions overrides the recognized audio extensions.
func WithExtensions(exts files.ExtensionSet) Option {
	return func(r *Runner) { r.extensions = exts }
}

// Runner transcribes files one at a time and writes each success.
// A single Runner must not run two batches at once.
type Runner struct {
	transcriber Transcriber
	writer      ResultWriter
	logger      *zap.Logger

	yieldDelay time.Duration
	extensions files.ExtensionSet
	recorder   Recorder
	metrics    Metrics
	progress   *ProgressManager
}

// NewRunner creates a Runner.
func NewRunner(transcriber Transcriber, writer ResultWriter, logger *zap.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runner{
		transcriber: transcriber,
		writer:      writer,
		logger:      logger,
		extensions:  files.DefaultAudioExtensions,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunDirectory discovers audio under root and runs the batch over it.
// A missing root fails with ErrDirectoryNotFound before anything is processed.
func (r *Runner) RunDirectory(ctx context.Context, root string, mode model.SaveMode) (model.BatchRunSummary, error) {
	refs, err := files.Discover(root, r.extensions)
	if err != nil {
		r.logger.Error("source directory not usable", zap.String("dir", root), zap.Error(err))
		return model.BatchRunSummary{Mode: mode}, err
	}
	for _, ref := range refs {
		r.logger.Debug("found audio file", zap.String("file", ref.RelPath))
	}
	r.logger.Info("discovered audio files",
		zap.String("dir", root),
		zap.Int("count", len(refs)),
		zap.Strings("extensions", r.extensions.List()))
	return r.run(ctx, root, refs, mode)
}

// Run processes refs in order. With mode both, every file is transcribed
// twice: once for the individual pass and once for the combined pass.
// A cancelled context stops the loop after the current item and is returned
// with the partial summary.
func (r *Runner) Run(ctx context.Context, refs []model.AudioFileRef, mode model.SaveMode) (model.BatchRunSummary, error) {
	return r.run(ctx, sourceRoot(refs), refs, mode)
}

func (r *Runner) run(ctx context.Context, root string, refs []model.AudioFileRef, mode model.SaveMode) (model.BatchRunSummary, error) {
	start := time.Now()
	summary := model.BatchRunSummary{RunID: uuid.NewString(), Mode: mode, FilesFound: len(refs)}

	if len(refs) == 0 {
		r.logger.Warn("no audio files to process", zap.String("dir", root))
		return summary, nil
	}

	passes := mode.Passes()
	if len(passes) > 1 {
		r.logger.Warn("save mode both transcribes every file once per pass",
			zap.Int("files", len(refs)),
			zap.Int("transcriptions", len(refs)*len(passes)))
	}

	for _, pass := range passes {
		if ctx.Err() != nil {
			break
		}
		summary.Add(r.runPass(ctx, summary.RunID, root, refs, pass))
	}
	summary.Elapsed = time.Since(start)

	r.logger.Info("batch finished",
		zap.String("run_id", summary.RunID),
		zap.String("mode", mode.String()),
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Int("files", summary.FilesFound),
		zap.Int("total", summary.TotalFound),
		zap.Float64("elapsed_sec", summary.ElapsedSeconds()),
		zap.Duration("avg_per_file", summary.AveragePerFile()),
		zap.String("combined_file", summary.CombinedPath))

	if err := ctx.Err(); err != nil {
		r.logger.Warn("batch cancelled", zap.Error(err))
		return summary, err
	}
	return summary, nil
}

func (r *Runner) runPass(ctx context.Context, runID, root string, refs []model.AudioFileRef, mode model.SaveMode) model.BatchRunSummary {
	start := time.Now()
	pass := model.BatchRunSummary{RunID: runID, Mode: mode}

	if mode == model.SaveCombined {
		path, err := r.writer.BeginCombined(root, len(refs))
		if err != nil {
			r.logger.Error("could not create combined file", zap.Error(err))
		} else {
			pass.CombinedPath = path
			r.logger.Info("writing combined file", zap.String("path", path))
		}
	}

	// individual output path -> source that wrote it, to catch stems that collide
	written := make(map[string]string)

	bar := r.progress.CreateBar(len(refs), "Transcribing ("+mode.String()+")")
	defer bar.Complete()

	for i, ref := range refs {
		if i > 0 && !r.yield(ctx) {
			break
		}
		if ctx.Err() != nil {
			break
		}

		r.logger.Info("processing file",
			zap.Int("index", i+1),
			zap.Int("total", len(refs)),
			zap.String("file", ref.RelPath),
			zap.String("mode", mode.String()))

		result := r.transcriber.Transcribe(ctx, ref)
		outputPath, kind, detail := r.persist(result, mode)

		pass.TotalFound++
		if kind == "" && mode == model.SaveIndividual {
			if previous, ok := written[outputPath]; ok {
				r.logger.Warn("individual transcript overwritten by a file with the same name stem",
					zap.String("output", outputPath),
					zap.String("previous", previous),
					zap.String("file", ref.RelPath))
			}
			written[outputPath] = ref.RelPath
		}
		if kind == "" {
			pass.Succeeded++
			r.logger.Info("transcribed",
				zap.String("file", ref.RelPath),
				zap.String("output", outputPath),
				zap.Int("chars", len(result.Text)),
				zap.Duration("took", result.Duration))
		} else {
			pass.RecordFailure(kind)
			r.logger.Error("failed",
				zap.String("file", ref.RelPath),
				zap.String("kind", string(kind)),
				zap.String("detail", detail))
		}

		r.observe(runID, mode, result, outputPath, kind, detail)
		bar.Increment()
	}

	if mode == model.SaveCombined && pass.CombinedPath != "" {
		if err := r.writer.FinishCombined(pass); err != nil {
			r.logger.Error("could not finish combined file", zap.Error(err))
		}
	}

	pass.Elapsed = time.Since(start)
	return pass
}

// persist writes an ok result. It reports the failure kind for anything
// that did not end up on disk, so each item is exactly one success or one failure.
func (r *Runner) persist(result model.TranscriptionResult, mode model.SaveMode) (string, apperrors.Kind, string) {
	if !result.Ok() {
		kind := result.Kind
		if kind == "" {
			kind = apperrors.KindEmptyResult
		}
		return "", kind, result.Detail
	}

	switch mode {
	case model.SaveCombined:
		path, err := r.writer.AppendCombined(result)
		if err != nil {
			return "", apperrors.KindWriteFailed, err.Error()
		}
		return path, "", ""
	default:
		path, err := r.writer.WriteIndividual(result)
		if err != nil {
			return "", apperrors.KindWriteFailed, err.Error()
		}
		return path, "", ""
	}
}

func (r *Runner) observe(runID string, mode model.SaveMode, result model.TranscriptionResult, outputPath string, kind apperrors.Kind, detail string) {
	if r.metrics != nil {
		outcome := OutcomeSucceeded
		if kind != "" {
			outcome = string(kind)
		}
		r.metrics.ItemProcessed(outcome, result.Duration)
	}

	if r.recorder == nil {
		return
	}
	record := model.OutcomeRecord{
		RunID:        runID,
		Mode:         mode,
		SourcePath:   result.Source.Path,
		OutputPath:   outputPath,
		Provider:     result.Provider,
		Succeeded:    kind == "",
		ErrorKind:    string(kind),
		ErrorMessage: detail,
		TextLength:   len(result.Text),
		DurationMs:   result.Duration.Milliseconds(),
		ProcessedAt:  time.Now(),
	}
	if err := r.recorder.RecordOutcome(record); err != nil {
		r.logger.Warn("could not record outcome", zap.String("file", result.Source.Path), zap.Error(err))
	}
}

// yield waits the configured delay. It returns false when ctx ends first.
func (r *Runner) yield(ctx context.Context) bool {
	if r.yieldDelay <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(r.yieldDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// sourceRoot recovers the discovery root from the refs, for the combined header.
func sourceRoot(refs []model.AudioFileRef) string {
	if len(refs) == 0 {
		return ""
	}
	root := strings.TrimSuffix(refs[0].Path, refs[0].RelPath)
	root = strings.TrimRight(root, `/\`)
	if root == "" {
		return "."
	}
	return root
}
