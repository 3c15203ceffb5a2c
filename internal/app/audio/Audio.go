package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	apperrors "whisper-batch/internal/app/errors"
)

// convertible lists the containers ffmpeg is asked to turn into WAV.
var convertible = map[string]bool{
	".mp3":  true,
	".ogg":  true,
	".flac": true,
	".aac":  true,
	".m4a":  true,
}

// Normalizer turns an input audio file into a WAV file a provider can read.
// cleanup removes any intermediate file and is never nil on success.
type Normalizer interface {
	ToWAV(ctx context.Context, inputFilePath string) (wavPath string, cleanup func(), err error)
}

// CommandRunner runs an external program and returns its stdout.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %v, stderr: %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// FFmpegNormalizer converts with ffmpeg to 16 kHz mono PCM WAV.
type FFmpegNormalizer struct {
	FFmpegPath string
	// TempDir receives intermediate WAV files; empty means os.TempDir().
	TempDir string
	run     CommandRunner
}

// NewFFmpegNormalizer creates a normalizer using ffmpeg from PATH.
func NewFFmpegNormalizer(tempDir string) *FFmpegNormalizer {
	return &FFmpegNormalizer{FFmpegPath: "ffmpeg", TempDir: tempDir, run: execRunner}
}

// WithRunner replaces the command runner. Used by tests.
func (n *FFmpegNormalizer) WithRunner(run CommandRunner) *FFmpegNormalizer {
	n.run = run
	return n
}

// ToWAV returns WAV input unchanged; other supported containers are converted.
func (n *FFmpegNormalizer) ToWAV(ctx context.Context, inputFilePath string) (string, func(), error) {
	noop := func() {}
	ext := strings.ToLower(filepath.Ext(inputFilePath))
	if ext == ".wav" {
		return inputFilePath, noop, nil
	}
	if !convertible[ext] {
		return "", nil, apperrors.Wrapf(apperrors.ErrConversionFailed, "unsupported audio format %q: %s", ext, inputFilePath)
	}

	base := strings.TrimSuffix(filepath.Base(inputFilePath), filepath.Ext(inputFilePath))
	out, err := os.CreateTemp(n.TempDir, base+"_*_16khz.wav")
	if err != nil {
		return "", nil, apperrors.Wrapf(apperrors.ErrConversionFailed, "create temp wav: %v", err)
	}
	outPath := out.Name()
	out.Close()
	cleanup := func() { _ = os.Remove(outPath) }

	run := n.run
	if run == nil {
		run = execRunner
	}
	bin := n.FFmpegPath
	if bin == "" {
		bin = "ffmpeg"
	}
	if _, err := run(ctx, bin, "-y", "-i", inputFilePath, "-vn", "-acodec", "pcm_s16le", "-ar", "16000", "-ac", "1", outPath); err != nil {
		cleanup()
		return "", nil, apperrors.Wrapf(apperrors.ErrConversionFailed, "%s: %v", inputFilePath, err)
	}
	if info, err := os.Stat(outPath); err != nil || info.Size() == 0 {
		cleanup()
		return "", nil, apperrors.Wrapf(apperrors.ErrConversionFailed, "%s: ffmpeg produced no output", inputFilePath)
	}
	return outPath, cleanup, nil
}

// FFProbeOutput is the subset of `ffprobe -show_streams -print_format json` we read.
type FFProbeOutput struct {
	Streams []struct {
		CodecType  string `json:"codec_type"`
		CodecName  string `json:"codec_name"`
		SampleRate int    `json:"sample_rate,string"`
		Channels   int    `json:"channels"`
	} `json:"streams"`
}

// Is16kHzWav reports whether filePath holds a pcm_s16le 16 kHz audio stream.
func Is16kHzWav(ctx context.Context, filePath string) (bool, error) {
	output, err := execRunner(ctx, "ffprobe", "-v", "quiet", "-print_format", "json", "-show_streams", filePath)
	if err != nil {
		return false, err
	}
	return parseIs16kHzWav(output)
}

func parseIs16kHzWav(output []byte) (bool, error) {
	var probeOutput FFProbeOutput
	if err := json.Unmarshal(output, &probeOutput); err != nil {
		return false, err
	}

	for _, stream := range probeOutput.Streams {
		if stream.CodecType == "audio" && stream.CodecName == "pcm_s16le" && stream.SampleRate == 16000 {
			return true, nil
		}
	}

	return false, nil
}

// Ensure16kHzWav returns filePath when it is already 16 kHz PCM, otherwise converts it with n.
func Ensure16kHzWav(ctx context.Context, n Normalizer, filePath string) (string, func(), error) {
	if ok, err := Is16kHzWav(ctx, filePath); err == nil && ok {
		return filePath, func() {}, nil
	}
	if strings.EqualFold(filepath.Ext(filePath), ".wav") {
		// a WAV at another rate still needs resampling
		return forceConvert(ctx, filePath)
	}
	return n.ToWAV(ctx, filePath)
}

func forceConvert(ctx context.Context, filePath string) (string, func(), error) {
	base := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	out, err := os.CreateTemp("", base+"_*_16khz.wav")
	if err != nil {
		return "", nil, apperrors.Wrapf(apperrors.ErrConversionFailed, "create temp wav: %v", err)
	}
	outPath := out.Name()
	out.Close()
	if _, err := execRunner(ctx, "ffmpeg", "-y", "-i", filePath, "-acodec", "pcm_s16le", "-ar", "16000", "-ac", "1", outPath); err != nil {
		_ = os.Remove(outPath)
		return "", nil, apperrors.Wrapf(apperrors.ErrConversionFailed, "%s: %v", filePath, err)
	}
	return outPath, func() { _ = os.Remove(outPath) }, nil
}
