package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "whisper-batch/internal/api/errors"
	"whisper-batch/internal/app/model"
)

func TestGenerateFilename(t *testing.T) {
	tests := []struct {
		clientID, segmentName, segment, want string
	}{
		{clientID: "client1", segmentName: "segment", segment: "3", want: "client1_segment_3.wav"},
		{clientID: "", segmentName: "segment", segment: "unknown", want: "_segment_unknown.wav"},
		{clientID: `a<b>c:d"e/f\g|h?i*j`, segmentName: "part", segment: "1", want: "a_b_c_d_e_f_g_h_i_j_part_1.wav"},
		{clientID: "c", segmentName: "segment", segment: "../../etc", want: "c_segment_.._.._etc.wav"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateFilename(tt.clientID, tt.segmentName, tt.segment))
		})
	}
}

type stubPipeline struct {
	result func(path string) model.TranscriptionResult
}

func (p stubPipeline) TranscribeFile(ctx context.Context, path string) model.TranscriptionResult {
	return p.result(path)
}

func (p stubPipeline) Describe() string { return "stub" }

func TestUploadService_RemovesFileOnEveryOutcome(t *testing.T) {
	tests := []struct {
		name    string
		result  func(path string) model.TranscriptionResult
		wantErr bool
	}{
		{
			name: "success",
			result: func(path string) model.TranscriptionResult {
				return model.Succeeded(model.NewAudioFileRef("", path), "text")
			},
		},
		{
			name: "failure",
			result: func(path string) model.TranscriptionResult {
				return model.Failed(model.NewAudioFileRef("", path), "TranscriptionFailed", "boom")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "uploads")
			var seen string
			svc := NewUploadService(stubPipeline{result: func(path string) model.TranscriptionResult {
				seen = path
				assert.FileExists(t, path)
				return tt.result(path)
			}}, UploadConfig{UploadFolder: dir, SegmentName: "segment", LogTranscriptions: true}, nil)

			resp, err := svc.Transcribe(context.Background(), UploadRequest{ClientID: "c1", Segment: "2", Body: strings.NewReader("audio")})
			if tt.wantErr {
				require.Error(t, err)
				apiErr, ok := err.(*apierrors.APIError)
				require.True(t, ok)
				assert.Equal(t, "boom", apiErr.Reason)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "File c1_segment_2.wav uploaded and transcribed successfully", resp.Message)
			}
			assert.Equal(t, filepath.Join(dir, "c1_segment_2.wav"), seen)
			_, statErr := os.Stat(seen)
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}
