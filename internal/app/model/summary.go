package model

import (
	"time"

	apperrors "whisper-batch/internal/app/errors"
)

// BatchRunSummary aggregates one batch run.
type BatchRunSummary struct {
	RunID          string
	Mode           SaveMode
	// FilesFound is the number of discovered files. TotalFound counts attempts,
	// which is twice FilesFound in both mode.
	FilesFound     int
	TotalFound     int
	Succeeded      int
	Failed         int
	Elapsed        time.Duration
	FailuresByKind map[apperrors.Kind]int
	CombinedPath   string
}

// ElapsedSeconds is the wall-clock duration in seconds.
func (s BatchRunSummary) ElapsedSeconds() float64 {
	return s.Elapsed.Seconds()
}

// AveragePerFile returns the mean time spent per attempted file.
func (s BatchRunSummary) AveragePerFile() time.Duration {
	if s.TotalFound == 0 {
		return 0
	}
	return s.Elapsed / time.Duration(s.TotalFound)
}

// RecordFailure counts one failed item of the given kind.
func (s *BatchRunSummary) RecordFailure(kind apperrors.Kind) {
	s.Failed++
	if s.FailuresByKind == nil {
		s.FailuresByKind = make(map[apperrors.Kind]int)
	}
	s.FailuresByKind[kind]++
}

// Add folds another pass into s. Used when a run has more than one pass.
func (s *BatchRunSummary) Add(o BatchRunSummary) {
	s.TotalFound += o.TotalFound
	s.Succeeded += o.Succeeded
	s.Failed += o.Failed
	s.Elapsed += o.Elapsed
	for k, n := range o.FailuresByKind {
		if s.FailuresByKind == nil {
			s.FailuresByKind = make(map[apperrors.Kind]int)
		}
		s.FailuresByKind[k] += n
	}
	if o.CombinedPath != "" {
		s.CombinedPath = o.CombinedPath
	}
}
