package testutil

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMockTranscriber(t *testing.T) {
	ctx := context.Background()

	m := NewMockTranscriber()
	m.ResponseMap["a.wav"] = "alpha"
	m.ErrorMap["bad.wav"] = errors.New("boom")

	text, err := m.Transcript(ctx, "/in/a.wav")
	assert.NoError(t, err)
	assert.Equal(t, "alpha", text)

	_, err = m.Transcript(ctx, "/in/bad.wav")
	assert.EqualError(t, err, "boom")

	text, _ = m.Transcript(ctx, "/in/other.wav")
	assert.Equal(t, "mock transcription", text)
	assert.Equal(t, 3, m.Calls())
}

func TestMockTranscriber_Expectations(t *testing.T) {
	m := NewMockTranscriber()
	m.UseExpectations = true
	m.On("Transcript", mock.Anything, "/in/x.wav").Return("expected", nil).Once()

	text, err := m.Transcript(context.Background(), "/in/x.wav")
	assert.NoError(t, err)
	assert.Equal(t, "expected", text)
	m.AssertExpectations(t)
}
