package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_PreservesSentinel(t *testing.T) {
	err := Wrap(ErrConversionFailed, "ffmpeg exited 1")

	assert.True(t, stderrors.Is(err, ErrConversionFailed))
	assert.False(t, stderrors.Is(err, ErrTranscriptionFailed))
	assert.Equal(t, "conversion failed: ffmpeg exited 1", err.Error())
}

func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))
	assert.Nil(t, Wrapf(nil, "ignored %d", 1))
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "nil", err: nil, want: ""},
		{name: "directory", err: Wrap(ErrDirectoryNotFound, "/missing"), want: KindDirectoryNotFound},
		{name: "conversion", err: Wrap(ErrConversionFailed, "x"), want: KindConversionFailed},
		{name: "empty", err: ErrEmptyResult, want: KindEmptyResult},
		{name: "write", err: fmt.Errorf("saving: %w", Wrap(ErrWriteFailed, "disk full")), want: KindWriteFailed},
		{name: "foreign error", err: stderrors.New("boom"), want: KindTranscriptionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestSentinel_UnknownKind(t *testing.T) {
	assert.Equal(t, ErrTranscriptionFailed, Sentinel(Kind("nope")))
	assert.Equal(t, ErrWriteFailed, Sentinel(KindWriteFailed))
}

func TestIs_DistinctMessages(t *testing.T) {
	assert.False(t, stderrors.Is(New("a"), New("b")))
	assert.True(t, stderrors.Is(New("a"), New("a")))
}
