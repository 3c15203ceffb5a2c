package whisper_cpp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whisper-batch/internal/app/api/provider"
	apperrors "whisper-batch/internal/app/errors"
)

func newTestTranscriber(t *testing.T, run runFunc) *LocalTranscriber {
	lt := NewLocalTranscriber(Config{
		BinaryPath: "/opt/whisper.cpp/main",
		ModelPath:  "/models/ggml-small.bin",
		Prompt:     "Transcript:",
		Threads:    4,
		TempDir:    t.TempDir(),
	}, nil)
	lt.run = run
	lt.ensure = func(ctx context.Context, path string) (string, func(), error) {
		return path, func() {}, nil
	}
	return lt
}

func argAfter(args []string, flag string) string {
	for i, a := range args {
		if a == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func TestLocalTranscriber_Transcript(t *testing.T) {
	var gotArgs []string
	lt := newTestTranscriber(t, func(ctx context.Context, name string, args ...string) error {
		gotArgs = args
		return os.WriteFile(argAfter(args, "-of")+".txt", []byte(" And so my fellow Americans \n"), 0644)
	})

	text, err := lt.Transcript(context.Background(), "/data/jfk.wav")
	require.NoError(t, err)

	assert.Equal(t, "And so my fellow Americans", text)
	assert.Equal(t, "/models/ggml-small.bin", argAfter(gotArgs, "-m"))
	assert.Equal(t, "auto", argAfter(gotArgs, "-l"))
	assert.Equal(t, "Transcript:", argAfter(gotArgs, "--prompt"))
	assert.Equal(t, "4", argAfter(gotArgs, "-t"))
	assert.Equal(t, "/data/jfk.wav", argAfter(gotArgs, "-f"))
	assert.Contains(t, gotArgs, "-otxt")

	_, err = os.Stat(filepath.Dir(argAfter(gotArgs, "-of")))
	assert.True(t, os.IsNotExist(err), "output dir should be removed")
}

func TestLocalTranscriber_CommandFailure(t *testing.T) {
	lt := newTestTranscriber(t, func(ctx context.Context, name string, args ...string) error {
		return errors.New("exit status 1, stderr: failed to load model")
	})

	_, err := lt.Transcript(context.Background(), "/data/jfk.wav")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrTranscriptionFailed))
	assert.Contains(t, err.Error(), "failed to load model")
}

func TestLocalTranscriber_MissingOutput(t *testing.T) {
	lt := newTestTranscriber(t, func(ctx context.Context, name string, args ...string) error {
		return nil
	})

	_, err := lt.Transcript(context.Background(), "/data/jfk.wav")
	assert.Error(t, err)
}

func TestCreateWhisperCppProvider(t *testing.T) {
	t.Setenv("WHISPER_CPP_BINARY", "")
	t.Setenv("WHISPER_CPP_MODEL", "")

	_, err := createWhisperCppProvider(provider.Settings{})
	assert.Error(t, err)

	model := filepath.Join(t.TempDir(), "ggml-base.bin")
	require.NoError(t, os.WriteFile(model, []byte("x"), 0644))

	tr, err := createWhisperCppProvider(provider.Settings{"binary_path": "/bin/whisper", "model_path": model})
	require.NoError(t, err)
	assert.Equal(t, "whisper_cpp ggml-base.bin", tr.(*LocalTranscriber).Describe())
}
