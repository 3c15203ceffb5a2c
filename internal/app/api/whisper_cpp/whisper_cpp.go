package whisper_cpp

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"whisper-batch/internal/app/audio"
	apperrors "whisper-batch/internal/app/errors"
	"whisper-batch/internal/app/util/files"
)

// Config holds the whisper.cpp binary settings.
type Config struct {
	BinaryPath string
	ModelPath  string
	Language   string
	Prompt     string
	Threads    int
	TempDir    string
}

type runFunc func(ctx context.Context, name string, args ...string) error

type ensureFunc func(ctx context.Context, path string) (string, func(), error)

// LocalTranscriber implements local transcription, using local binary commands.
type LocalTranscriber struct {
	cfg    Config
	logger *zap.Logger
	run    runFunc
	ensure ensureFunc
}

// NewLocalTranscriber creates a new instance of LocalTranscriber.
func NewLocalTranscriber(cfg Config, logger *zap.Logger) *LocalTranscriber {
	if cfg.Language == "" {
		cfg.Language = "auto"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	normalizer := audio.NewFFmpegNormalizer(cfg.TempDir)
	return &LocalTranscriber{
		cfg:    cfg,
		logger: logger,
		run:    runCommand,
		ensure: func(ctx context.Context, path string) (string, func(), error) {
			return audio.Ensure16kHzWav(ctx, normalizer, path)
		},
	}
}

// Describe implements api.Describer.
func (lt *LocalTranscriber) Describe() string {
	return fmt.Sprintf("whisper_cpp %s", filepath.Base(lt.cfg.ModelPath))
}

// Transcript runs the whisper.cpp binary on inputFilePath and returns the text it writes.
func (lt *LocalTranscriber) Transcript(ctx context.Context, inputFilePath string) (string, error) {
	lt.logger.Debug("starting whisper.cpp transcription", zap.String("file", inputFilePath))

	wavPath, cleanup, err := lt.ensure(ctx, inputFilePath)
	if err != nil {
		return "", err
	}
	defer cleanup()

	outDir, err := os.MkdirTemp(lt.cfg.TempDir, "whisper_cpp_*")
	if err != nil {
		return "", apperrors.Wrapf(apperrors.ErrTranscriptionFailed, "create output dir: %v", err)
	}
	defer os.RemoveAll(outDir)
	outputBase := filepath.Join(outDir, "out")

	args := lt.buildArgs(wavPath, outputBase)
	lt.logger.Debug("running whisper.cpp", zap.String("command", lt.cfg.BinaryPath+" "+strings.Join(args, " ")))

	if err := lt.run(ctx, lt.cfg.BinaryPath, args...); err != nil {
		return "", apperrors.Wrapf(apperrors.ErrTranscriptionFailed, "whisper.cpp: %v", err)
	}

	output, err := files.ReadOutputFile(outputBase + ".txt")
	if err != nil {
		return "", apperrors.Wrapf(apperrors.ErrTranscriptionFailed, "failed to read output file: %v", err)
	}
	return strings.TrimSpace(output), nil
}

func (lt *LocalTranscriber) buildArgs(inputPath, outputBase string) []string {
	args := []string{
		"-m", lt.cfg.ModelPath,
		"-l", lt.cfg.Language,
	}
	if lt.cfg.Prompt != "" {
		args = append(args, "--prompt", lt.cfg.Prompt)
	}
	if lt.cfg.Threads > 0 {
		args = append(args, "-t", strconv.Itoa(lt.cfg.Threads))
	}
	return append(args,
		"-nt",
		"-otxt",
		"-f", inputPath,
		"-of", outputBase,
	)
}

func runCommand(ctx context.Context, name string, args ...string) error {
	command := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	command.Stderr = &stderr
	if err := command.Run(); err != nil {
		return fmt.Errorf("%v, stderr: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
