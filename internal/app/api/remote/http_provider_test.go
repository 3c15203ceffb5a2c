package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whisper-batch/internal/app/api/provider"
	apperrors "whisper-batch/internal/app/errors"
)

func createMockUploadServer(t *testing.T, status int, body interface{}) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "No file part"})
			return
		}
		file.Close()
		assert.Equal(t, "clip.wav", header.Filename)
		assert.Equal(t, "7", r.FormValue("segment"))
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if s, ok := body.(string); ok {
			w.Write([]byte(s))
			return
		}
		json.NewEncoder(w).Encode(body)
	}))
}

func TestProvider_Transcript(t *testing.T) {
	audioPath := filepath.Join(t.TempDir(), "clip.wav")
	require.NoError(t, os.WriteFile(audioPath, []byte("RIFF"), 0644))

	tests := []struct {
		name        string
		status      int
		body        interface{}
		want        string
		errContains string
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body:   uploadResponse{Message: "File x uploaded and transcribed successfully", Transcription: "remote text"},
			want:   "remote text",
		},
		{
			name:        "transcription failure",
			status:      http.StatusInternalServerError,
			body:        uploadResponse{Error: "Failed to transcribe audio", Reason: "model crashed"},
			errContains: "model crashed",
		},
		{
			name:        "unauthorized",
			status:      http.StatusUnauthorized,
			body:        uploadResponse{Error: "Authorization failed"},
			errContains: "401",
		},
		{
			name:        "non-JSON body",
			status:      http.StatusBadGateway,
			body:        "<html>bad gateway</html>",
			errContains: "non-JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := createMockUploadServer(t, tt.status, tt.body)
			defer server.Close()

			p := NewProvider(Config{URL: server.URL + "/upload", Token: "Bearer abc", Segment: "7"})
			text, err := p.Transcript(context.Background(), audioPath)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.True(t, errors.Is(err, apperrors.ErrTranscriptionFailed))
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestProvider_MissingFile(t *testing.T) {
	p := NewProvider(Config{URL: "http://127.0.0.1:1/upload"})
	_, err := p.Transcript(context.Background(), filepath.Join(t.TempDir(), "nope.wav"))
	assert.Error(t, err)
}

func TestCreateRemoteProvider(t *testing.T) {
	t.Setenv("REMOTE_URL", "")
	_, err := createRemoteProvider(provider.Settings{})
	assert.Error(t, err)

	tr, err := createRemoteProvider(provider.Settings{"url": "https://a2t.example.com/upload"})
	require.NoError(t, err)
	assert.Equal(t, "remote https://a2t.example.com/upload", tr.(*Provider).Describe())
}
