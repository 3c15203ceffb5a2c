package model

import "time"

// OutcomeRecord is one row of run history.
type OutcomeRecord struct {
	ID           int64
	RunID        string
	Mode         SaveMode
	SourcePath   string
	OutputPath   string
	Provider     string
	Succeeded    bool
	ErrorKind    string
	ErrorMessage string
	TextLength   int
	DurationMs   int64
	ProcessedAt  time.Time
}
