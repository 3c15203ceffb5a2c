package batch

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "whisper-batch/internal/app/errors"
	"whisper-batch/internal/app/model"
)

func TestPrintSummary(t *testing.T) {
	tests := []struct {
		name        string
		summary     model.BatchRunSummary
		contains    []string
		notContains []string
	}{
		{
			name: "individual",
			summary: model.BatchRunSummary{
				RunID: "run-1", Mode: model.SaveIndividual,
				FilesFound: 3, TotalFound: 3, Succeeded: 2, Failed: 1,
				Elapsed:        3 * time.Second,
				FailuresByKind: map[apperrors.Kind]int{apperrors.KindEmptyResult: 1},
			},
			contains: []string{
				"Successfully processed: 2",
				"Failed: 1",
				"Total files: 3",
				"Failures by kind: [empty_result=1]",
			},
			notContains: []string{"Transcription attempts"},
		},
		{
			name: "both counts files and attempts separately",
			summary: model.BatchRunSummary{
				RunID: "run-2", Mode: model.SaveBoth,
				FilesFound: 2, TotalFound: 4, Succeeded: 4,
				Elapsed:      4 * time.Second,
				CombinedPath: "/out/combined_transcriptions_20250101_120000.txt",
			},
			contains: []string{
				"Total files: 2",
				"Transcription attempts: 4",
				"Combined file: /out/combined_transcriptions_20250101_120000.txt",
			},
			notContains: []string{"Failures by kind"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printSummary(&buf, tt.summary)
			for _, want := range tt.contains {
				assert.Contains(t, buf.String(), want)
			}
			for _, unwanted := range tt.notContains {
				assert.NotContains(t, buf.String(), unwanted)
			}
		})
	}
}
