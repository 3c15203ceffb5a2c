package repository

import (
	"fmt"
	"strings"

	"whisper-batch/internal/app/model"
	"whisper-batch/internal/app/repository/pg"
	"whisper-batch/internal/app/repository/sqlite"
)

// HistoryDAO stores one row per processed item of a batch run.
type HistoryDAO interface {
	Close() error

	EnsureSchema() error

	RecordOutcome(record model.OutcomeRecord) error

	ListByRun(runID string) ([]model.OutcomeRecord, error)

	ListRecent(limit int) ([]model.OutcomeRecord, error)
}

var (
	_ HistoryDAO = (*sqlite.HistoryDB)(nil)
	_ HistoryDAO = (*pg.HistoryDB)(nil)
)

// OpenHistory picks the implementation from the DSN scheme and creates the table.
// Accepted forms: sqlite://path/to/file.db, sqlite://:memory:, postgres://... and postgresql://...
func OpenHistory(dsn string) (HistoryDAO, error) {
	var (
		dao HistoryDAO
		err error
	)
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		dao, err = sqlite.NewHistoryDB(strings.TrimPrefix(dsn, "sqlite://"))
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		dao, err = pg.NewHistoryDB(dsn)
	default:
		return nil, fmt.Errorf("unsupported history DSN %q (want sqlite:// or postgres://)", dsn)
	}
	if err != nil {
		return nil, err
	}
	if err := dao.EnsureSchema(); err != nil {
		dao.Close()
		return nil, err
	}
	return dao, nil
}
