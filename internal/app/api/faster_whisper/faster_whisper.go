package faster_whisper

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	apperrors "whisper-batch/internal/app/errors"
)

// Config selects the model and where it runs.
type Config struct {
	Python      string
	ModelSize   string
	Device      string
	ComputeType string
	Language    string
	BeamSize    int
}

// Transcriber keeps one faster-whisper helper process alive and sends it one
// request per file. It is not safe for concurrent use; calls are serialized.
type Transcriber struct {
	cfg        Config
	logger     *zap.Logger
	start      startFunc
	scriptPath string

	mu sync.Mutex
	w  *worker
}

// NewTranscriber starts the helper and blocks until the model is loaded.
func NewTranscriber(cfg Config, logger *zap.Logger) (*Transcriber, error) {
	scriptPath, err := writeScript()
	if err != nil {
		return nil, err
	}
	t, err := newWithStart(cfg, logger, startProcess(scriptPath))
	if err != nil {
		os.RemoveAll(filepath.Dir(scriptPath))
		return nil, err
	}
	t.scriptPath = scriptPath
	return t, nil
}

func newWithStart(cfg Config, logger *zap.Logger, start startFunc) (*Transcriber, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BeamSize <= 0 {
		cfg.BeamSize = 1
	}
	t := &Transcriber{cfg: cfg, logger: logger, start: start}

	logger.Info("loading faster-whisper model",
		zap.String("model", cfg.ModelSize),
		zap.String("device", cfg.Device),
		zap.String("compute_type", cfg.ComputeType))
	w, err := start(cfg)
	if err != nil {
		return nil, err
	}
	t.w = w
	logger.Info("faster-whisper model loaded", zap.String("model", cfg.ModelSize))
	return t, nil
}

// Describe implements api.Describer.
func (t *Transcriber) Describe() string {
	return fmt.Sprintf("faster_whisper %s %s/%s", t.cfg.ModelSize, t.cfg.Device, t.cfg.ComputeType)
}

// Transcript sends one file to the helper. A cancelled context kills the
// helper; the next call starts a new one.
func (t *Transcriber) Transcript(ctx context.Context, inputFilePath string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.w == nil {
		t.logger.Warn("restarting faster-whisper helper")
		w, err := t.start(t.cfg)
		if err != nil {
			return "", apperrors.Wrap(apperrors.ErrTranscriptionFailed, err.Error())
		}
		t.w = w
	}

	type result struct {
		resp response
		err  error
	}
	done := make(chan result, 1)
	w := t.w
	go func() {
		if err := w.send(request{Audio: inputFilePath, Language: t.cfg.Language}); err != nil {
			done <- result{err: err}
			return
		}
		resp, err := w.receive()
		done <- result{resp: resp, err: err}
	}()

	select {
	case <-ctx.Done():
		t.discardWorker()
		return "", apperrors.Wrapf(apperrors.ErrTranscriptionFailed, "cancelled: %v", ctx.Err())
	case r := <-done:
		if r.err != nil {
			t.discardWorker()
			return "", apperrors.Wrapf(apperrors.ErrTranscriptionFailed, "faster-whisper helper: %v", r.err)
		}
		if r.resp.Error != "" {
			return "", apperrors.Wrap(apperrors.ErrTranscriptionFailed, r.resp.Error)
		}
		t.logger.Debug("faster-whisper transcribed",
			zap.String("file", inputFilePath),
			zap.String("language", r.resp.Language),
			zap.Float64("duration_sec", r.resp.Duration))
		return strings.TrimSpace(r.resp.Text), nil
	}
}

func (t *Transcriber) discardWorker() {
	if t.w != nil {
		_ = t.w.stop()
		t.w = nil
	}
}

// Close stops the helper process and removes the helper script.
func (t *Transcriber) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.discardWorker()
	if t.scriptPath != "" {
		return os.RemoveAll(filepath.Dir(t.scriptPath))
	}
	return nil
}
