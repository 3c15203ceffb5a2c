package testutil

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockTranscriber satisfies api.Transcriber. Answers are chosen by the base
// name of the input: ErrorMap first, then ResponseMap, then DefaultResponse.
// Expectations set with On("Transcript", ...) take precedence over all three.
type MockTranscriber struct {
	mock.Mock
	mu sync.Mutex

	DefaultResponse string
	Latency         time.Duration
	ErrorMap        map[string]error
	ResponseMap     map[string]string
	UseExpectations bool

	CallHistory []TranscriptionCall
	closed      bool
}

// TranscriptionCall records one Transcript call.
type TranscriptionCall struct {
	InputFilePath string
	Response      string
	Error         error
}

// NewMockTranscriber creates a mock answering "mock transcription" for every file.
func NewMockTranscriber() *MockTranscriber {
	return &MockTranscriber{
		DefaultResponse: "mock transcription",
		ErrorMap:        make(map[string]error),
		ResponseMap:     make(map[string]string),
	}
}

// Transcript implements api.Transcriber.
func (m *MockTranscriber) Transcript(ctx context.Context, inputFilePath string) (string, error) {
	if m.Latency > 0 {
		select {
		case <-time.After(m.Latency):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	var (
		response string
		err      error
	)
	if m.UseExpectations {
		args := m.Called(ctx, inputFilePath)
		response, err = args.String(0), args.Error(1)
	} else {
		response, err = m.answer(filepath.Base(inputFilePath))
	}

	m.mu.Lock()
	m.CallHistory = append(m.CallHistory, TranscriptionCall{InputFilePath: inputFilePath, Response: response, Error: err})
	m.mu.Unlock()
	return response, err
}

func (m *MockTranscriber) answer(name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.ErrorMap[name]; ok {
		return "", err
	}
	if response, ok := m.ResponseMap[name]; ok {
		return response, nil
	}
	return m.DefaultResponse, nil
}

// Describe implements api.Describer.
func (m *MockTranscriber) Describe() string { return "mock" }

// Close marks the mock closed.
func (m *MockTranscriber) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockTranscriber) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Calls returns the number of Transcript calls so far.
func (m *MockTranscriber) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.CallHistory)
}
