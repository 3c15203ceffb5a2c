package google_speech

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cloud.google.com/go/speech/apiv1/speechpb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "whisper-batch/internal/app/errors"
)

func result(alts ...string) *speechpb.SpeechRecognitionResult {
	r := &speechpb.SpeechRecognitionResult{}
	for _, a := range alts {
		r.Alternatives = append(r.Alternatives, &speechpb.SpeechRecognitionAlternative{Transcript: a})
	}
	return r
}

func TestJoinResults(t *testing.T) {
	tests := []struct {
		name    string
		results []*speechpb.SpeechRecognitionResult
		want    string
	}{
		{name: "none", want: ""},
		{name: "top alternative only", results: []*speechpb.SpeechRecognitionResult{result("hello there", "hello their")}, want: "hello there"},
		{name: "joins segments", results: []*speechpb.SpeechRecognitionResult{result(" first part "), result(), result("second part")}, want: "first part second part"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, joinResults(tt.results))
		})
	}
}

func TestTranscriber_Transcript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFFdata"), 0644))

	var got *speechpb.LongRunningRecognizeRequest
	tr := &Transcriber{cfg: withDefaults(Config{Punctuation: true})}
	tr.recognize = func(ctx context.Context, req *speechpb.LongRunningRecognizeRequest) ([]*speechpb.SpeechRecognitionResult, error) {
		got = req
		return []*speechpb.SpeechRecognitionResult{result("good morning")}, nil
	}

	text, err := tr.Transcript(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "good morning", text)
	assert.Equal(t, "en-US", got.GetConfig().GetLanguageCode())
	assert.Equal(t, int32(16000), got.GetConfig().GetSampleRateHertz())
	assert.Equal(t, speechpb.RecognitionConfig_LINEAR16, got.GetConfig().GetEncoding())
	assert.Equal(t, []byte("RIFFdata"), got.GetAudio().GetContent())
	assert.Equal(t, "google_speech en-US", tr.Describe())

	tr.recognize = func(ctx context.Context, req *speechpb.LongRunningRecognizeRequest) ([]*speechpb.SpeechRecognitionResult, error) {
		return nil, errors.New("permission denied")
	}
	_, err = tr.Transcript(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrTranscriptionFailed))

	_, err = tr.Transcript(context.Background(), filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)
	assert.NoError(t, tr.Close())
}
