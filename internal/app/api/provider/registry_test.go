package provider

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whisper-batch/internal/app/api"
	apperrors "whisper-batch/internal/app/errors"
)

type fakeTranscriber struct {
	text string
}

func (f *fakeTranscriber) Transcript(ctx context.Context, inputFilePath string) (string, error) {
	return f.text, nil
}

func (f *fakeTranscriber) Describe() string { return "fake " + f.text }

func TestRegistry_RegisterAndNew(t *testing.T) {
	RegisterProvider("test_fake", func(settings Settings) (api.Transcriber, error) {
		return &fakeTranscriber{text: settings.String("text", "default")}, nil
	})

	tr, err := New("test_fake", Settings{"text": "hello"})
	require.NoError(t, err)

	text, err := tr.Transcript(context.Background(), "x.wav")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Contains(t, Available(), "test_fake")
}

func TestRegistry_UnknownProvider(t *testing.T) {
	_, err := New("does_not_exist", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnknownProvider))
	assert.Contains(t, err.Error(), "does_not_exist")
}

func TestHandle_BuildsOnceUnderConcurrentUse(t *testing.T) {
	var builds int32
	h := NewHandleFunc("fake", func() (api.Transcriber, error) {
		atomic.AddInt32(&builds, 1)
		return &fakeTranscriber{text: "ok"}, nil
	})
	assert.Equal(t, "fake", h.Describe())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			text, err := h.Transcript(context.Background(), "a.wav")
			assert.NoError(t, err)
			assert.Equal(t, "ok", text)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&builds))
	assert.Equal(t, "fake ok", h.Describe())
	assert.NoError(t, h.Close())
}

func TestHandle_MemoizesConstructionError(t *testing.T) {
	var builds int
	h := NewHandleFunc("broken", func() (api.Transcriber, error) {
		builds++
		return nil, errors.New("model file missing")
	})

	for i := 0; i < 3; i++ {
		_, err := h.Transcript(context.Background(), "a.wav")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "model file missing")
	}
	assert.Equal(t, 1, builds)
	assert.Equal(t, "broken", h.Describe())
}

func TestResolveDevice(t *testing.T) {
	original := lookPath
	defer func() { lookPath = original }()

	tests := []struct {
		name        string
		device      string
		computeType string
		hasGPU      bool
		wantDevice  string
		wantCompute string
	}{
		{name: "explicit cuda", device: "cuda", wantDevice: "cuda", wantCompute: "float16"},
		{name: "explicit cpu", device: "CPU", wantDevice: "cpu", wantCompute: "int8"},
		{name: "auto with gpu", device: "auto", hasGPU: true, wantDevice: "cuda", wantCompute: "float16"},
		{name: "auto without gpu", device: "", wantDevice: "cpu", wantCompute: "int8"},
		{name: "compute override", device: "cpu", computeType: "float32", wantDevice: "cpu", wantCompute: "float32"},
		{name: "auto compute", device: "cuda", computeType: "auto", wantDevice: "cuda", wantCompute: "float16"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookPath = func(string) (string, error) {
				if tt.hasGPU {
					return "/usr/bin/nvidia-smi", nil
				}
				return "", errors.New("not found")
			}
			device, compute := ResolveDevice(tt.device, tt.computeType)
			assert.Equal(t, tt.wantDevice, device)
			assert.Equal(t, tt.wantCompute, compute)
		})
	}
}

func TestSettings(t *testing.T) {
	s := Settings{"a": "x", "n": "42", "f": 1.5, "b": "true", "blank": "  "}

	assert.Equal(t, "x", s.String("a", "d"))
	assert.Equal(t, "d", s.String("blank", "d"))
	assert.Equal(t, "d", s.String("missing", "d"))
	assert.Equal(t, 42, s.Int("n", 0))
	assert.Equal(t, 7, s.Int("a", 7))
	assert.Equal(t, 1.5, s.Float("f", 0))
	assert.True(t, s.Bool("b", false))

	merged := s.Merge(Settings{"a": "y", "n": ""})
	assert.Equal(t, "y", merged.String("a", ""))
	assert.Equal(t, 42, merged.Int("n", 0))
	assert.Equal(t, "x", s.String("a", ""))
}
