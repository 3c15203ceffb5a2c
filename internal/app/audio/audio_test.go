package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "whisper-batch/internal/app/errors"
)

// fakeFFmpeg writes a small file at the output argument (always last).
func fakeFFmpeg(calls *[][]string) CommandRunner {
	return func(ctx context.Context, name string, args ...string) ([]byte, error) {
		*calls = append(*calls, append([]string{name}, args...))
		out := args[len(args)-1]
		return nil, os.WriteFile(out, []byte("RIFF"), 0o644)
	}
}

func TestToWAV_WavPassthrough(t *testing.T) {
	var calls [][]string
	n := NewFFmpegNormalizer(t.TempDir()).WithRunner(fakeFFmpeg(&calls))

	path, cleanup, err := n.ToWAV(context.Background(), "/data/call.WAV")
	require.NoError(t, err)
	require.NotNil(t, cleanup)
	cleanup()

	assert.Equal(t, "/data/call.WAV", path)
	assert.Empty(t, calls)
}

func TestToWAV_ConvertsSupportedFormats(t *testing.T) {
	for _, ext := range []string{".mp3", ".ogg", ".flac", ".aac", ".m4a", ".MP3"} {
		t.Run(ext, func(t *testing.T) {
			var calls [][]string
			tmp := t.TempDir()
			n := NewFFmpegNormalizer(tmp).WithRunner(fakeFFmpeg(&calls))

			path, cleanup, err := n.ToWAV(context.Background(), "/data/voice"+ext)
			require.NoError(t, err)

			assert.Equal(t, tmp, filepath.Dir(path))
			assert.Equal(t, ".wav", filepath.Ext(path))
			require.Len(t, calls, 1)
			assert.Equal(t, "ffmpeg", calls[0][0])
			assert.Contains(t, calls[0], "16000")
			assert.Contains(t, calls[0], "/data/voice"+ext)

			cleanup()
			_, err = os.Stat(path)
			assert.True(t, os.IsNotExist(err))
		})
	}
}

func TestToWAV_UnsupportedFormat(t *testing.T) {
	var calls [][]string
	n := NewFFmpegNormalizer(t.TempDir()).WithRunner(fakeFFmpeg(&calls))

	_, _, err := n.ToWAV(context.Background(), "/data/video.mp4")
	assert.ErrorIs(t, err, apperrors.ErrConversionFailed)
	assert.Empty(t, calls)
}

func TestToWAV_FFmpegFailure(t *testing.T) {
	tmp := t.TempDir()
	n := NewFFmpegNormalizer(tmp).WithRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, errors.New("exit status 1")
	})

	_, _, err := n.ToWAV(context.Background(), "/data/broken.ogg")
	assert.ErrorIs(t, err, apperrors.ErrConversionFailed)
	assert.Contains(t, err.Error(), "exit status 1")

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries, "intermediate file must be removed on failure")
}

func TestToWAV_EmptyOutput(t *testing.T) {
	n := NewFFmpegNormalizer(t.TempDir()).WithRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, nil
	})

	_, _, err := n.ToWAV(context.Background(), "/data/silent.mp3")
	assert.ErrorIs(t, err, apperrors.ErrConversionFailed)
}

func TestParseIs16kHzWav(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   bool
	}{
		{
			name:   "pcm 16k",
			output: `{"streams":[{"codec_type":"audio","codec_name":"pcm_s16le","sample_rate":"16000","channels":1}]}`,
			want:   true,
		},
		{
			name:   "pcm 44.1k",
			output: `{"streams":[{"codec_type":"audio","codec_name":"pcm_s16le","sample_rate":"44100","channels":2}]}`,
			want:   false,
		},
		{
			name:   "mp3",
			output: `{"streams":[{"codec_type":"audio","codec_name":"mp3","sample_rate":"16000"}]}`,
			want:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseIs16kHzWav([]byte(tt.output))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := parseIs16kHzWav([]byte("not json"))
	assert.Error(t, err)
}
