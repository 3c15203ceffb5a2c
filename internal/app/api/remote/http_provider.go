package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "whisper-batch/internal/app/errors"
)

// Config points the provider at another a2t upload endpoint.
type Config struct {
	URL       string
	Token     string
	Segment   string
	Timeout   time.Duration
	UserAgent string
}

// uploadResponse is the upload endpoint's JSON body, success or failure.
type uploadResponse struct {
	Message       string `json:"message,omitempty"`
	Transcription string `json:"transcription,omitempty"`
	Error         string `json:"error,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

// Provider transcribes by uploading the WAV to a remote upload service.
type Provider struct {
	config Config
	client *http.Client
}

// NewProvider creates a remote provider.
func NewProvider(config Config) *Provider {
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Minute
	}
	if config.Segment == "" {
		config.Segment = "unknown"
	}
	if config.UserAgent == "" {
		config.UserAgent = "a2t"
	}
	return &Provider{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// Describe implements api.Describer.
func (p *Provider) Describe() string {
	return "remote " + p.config.URL
}

// Transcript implements api.Transcriber.
func (p *Provider) Transcript(ctx context.Context, inputFilePath string) (string, error) {
	body, contentType, err := p.createMultipartForm(inputFilePath)
	if err != nil {
		return "", apperrors.Wrapf(apperrors.ErrTranscriptionFailed, "failed to create multipart form: %v", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.URL, body)
	if err != nil {
		return "", apperrors.Wrapf(apperrors.ErrTranscriptionFailed, "failed to create HTTP request: %v", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("User-Agent", p.config.UserAgent)
	if p.config.Token != "" {
		httpReq.Header.Set("Authorization", p.config.Token)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", apperrors.Wrapf(apperrors.ErrTranscriptionFailed, "HTTP request failed: %v", err)
	}
	defer resp.Body.Close()

	responseData, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.Wrapf(apperrors.ErrTranscriptionFailed, "failed to read response: %v", err)
	}

	var parsed uploadResponse
	if err := json.Unmarshal(responseData, &parsed); err != nil {
		return "", apperrors.Wrapf(apperrors.ErrTranscriptionFailed,
			"status %d with non-JSON body: %s", resp.StatusCode, truncate(string(responseData), 200))
	}

	if resp.StatusCode != http.StatusOK {
		msg := parsed.Error
		if parsed.Reason != "" {
			msg += ": " + parsed.Reason
		}
		return "", apperrors.Wrapf(apperrors.ErrTranscriptionFailed, "API returned status %d: %s", resp.StatusCode, msg)
	}
	return parsed.Transcription, nil
}

func (p *Provider) createMultipartForm(inputFilePath string) (*bytes.Buffer, string, error) {
	file, err := os.Open(inputFilePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %v", err)
	}
	defer file.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filepath.Base(inputFilePath))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", err
	}
	if err := writer.WriteField("segment", p.config.Segment); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
