package faster_whisper

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "whisper-batch/internal/app/errors"
)

// fakeWorker answers requests in-process, like the python helper would.
func fakeWorker(t *testing.T, answer func(req request) response) *worker {
	reqR, reqW := io.Pipe()
	respR, respW := io.Pipe()

	go func() {
		defer respW.Close()
		scanner := bufio.NewScanner(reqR)
		for scanner.Scan() {
			var req request
			if err := json.Unmarshal(scanner.Bytes(), &req); err != nil {
				return
			}
			line, _ := json.Marshal(answer(req))
			if _, err := respW.Write(append(line, '\n')); err != nil {
				return
			}
		}
	}()

	return &worker{
		in:  reqW,
		out: bufio.NewReader(respR),
		stop: func() error {
			reqW.Close()
			return respR.Close()
		},
	}
}

func TestTranscriber_Transcript(t *testing.T) {
	starts := 0
	start := func(cfg Config) (*worker, error) {
		starts++
		return fakeWorker(t, func(req request) response {
			switch req.Audio {
			case "bad.wav":
				return response{Error: "unsupported audio"}
			default:
				return response{Text: " hello from " + req.Audio + " ", Language: req.Language}
			}
		}), nil
	}

	tr, err := newWithStart(Config{ModelSize: "small", Device: "cpu", ComputeType: "int8", Language: "en"}, nil, start)
	require.NoError(t, err)
	defer tr.Close()

	text, err := tr.Transcript(context.Background(), "a.wav")
	require.NoError(t, err)
	assert.Equal(t, "hello from a.wav", text)

	_, err = tr.Transcript(context.Background(), "bad.wav")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrTranscriptionFailed))
	assert.Contains(t, err.Error(), "unsupported audio")

	text, err = tr.Transcript(context.Background(), "b.wav")
	require.NoError(t, err)
	assert.Equal(t, "hello from b.wav", text)

	assert.Equal(t, 1, starts, "model loads once")
	assert.Equal(t, "faster_whisper small cpu/int8", tr.Describe())
}

func TestTranscriber_StartFailure(t *testing.T) {
	_, err := newWithStart(Config{ModelSize: "large"}, nil, func(cfg Config) (*worker, error) {
		return nil, errors.New("faster-whisper failed to load model large: CUDA out of memory")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CUDA out of memory")
}

func TestTranscriber_CancelRestartsWorker(t *testing.T) {
	starts := 0
	block := make(chan struct{})
	start := func(cfg Config) (*worker, error) {
		starts++
		n := starts
		return fakeWorker(t, func(req request) response {
			if n == 1 {
				<-block
			}
			return response{Text: "ok"}
		}), nil
	}

	tr, err := newWithStart(Config{ModelSize: "tiny"}, nil, start)
	require.NoError(t, err)
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = tr.Transcript(ctx, "slow.wav")
	require.Error(t, err)

	text, err := tr.Transcript(context.Background(), "next.wav")
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, 2, starts)
}

func TestLastLines(t *testing.T) {
	assert.Equal(t, "c | d", lastLines("a\nb\nc\nd\n", 2))
	assert.Equal(t, "only", lastLines("only", 3))
}
