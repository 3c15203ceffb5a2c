package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"whisper-batch/internal/app/model"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS batch_outcomes (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id        TEXT    NOT NULL,
	mode          TEXT    NOT NULL,
	source_path   TEXT    NOT NULL,
	output_path   TEXT    NOT NULL DEFAULT '',
	provider      TEXT    NOT NULL DEFAULT '',
	succeeded     INTEGER NOT NULL DEFAULT 0,
	error_kind    TEXT    NOT NULL DEFAULT '',
	error_message TEXT    NOT NULL DEFAULT '',
	text_length   INTEGER NOT NULL DEFAULT 0,
	duration_ms   INTEGER NOT NULL DEFAULT 0,
	processed_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_batch_outcomes_run_id ON batch_outcomes (run_id);`

const selectColumns = `SELECT id, run_id, mode, source_path, output_path, provider, succeeded,
		error_kind, error_message, text_length, duration_ms, processed_at
	FROM batch_outcomes`

type HistoryDB struct {
	db *sql.DB
}

// NewHistoryDB opens (and creates) the database file at dbFilePath. ":memory:" is accepted.
func NewHistoryDB(dbFilePath string) (*HistoryDB, error) {
	if dbFilePath == "" {
		return nil, fmt.Errorf("sqlite history path is empty")
	}
	if dbFilePath != ":memory:" {
		if dir := filepath.Dir(dbFilePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create history dir: %w", err)
			}
		}
	}
	db, err := sql.Open("sqlite3", dbFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps :memory: databases alive and serializes writers
	db.SetMaxOpenConns(1)
	return &HistoryDB{db: db}, nil
}

func (sdb *HistoryDB) Close() error {
	return sdb.db.Close()
}

func (sdb *HistoryDB) EnsureSchema() error {
	if _, err := sdb.db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

func (sdb *HistoryDB) RecordOutcome(r model.OutcomeRecord) error {
	insertSQL := `INSERT INTO batch_outcomes (run_id, mode, source_path, output_path, provider, succeeded, error_kind, error_message, text_length, duration_ms, processed_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`
	_, err := sdb.db.Exec(insertSQL, r.RunID, string(r.Mode), r.SourcePath, r.OutputPath, r.Provider, r.Succeeded,
		r.ErrorKind, r.ErrorMessage, r.TextLength, r.DurationMs, r.ProcessedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert failed: %w", err)
	}
	return nil
}

func (sdb *HistoryDB) ListByRun(runID string) ([]model.OutcomeRecord, error) {
	rows, err := sdb.db.Query(selectColumns+` WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return scanRecords(rows)
}

func (sdb *HistoryDB) ListRecent(limit int) ([]model.OutcomeRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := sdb.db.Query(selectColumns+` ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]model.OutcomeRecord, error) {
	defer rows.Close()

	records := make([]model.OutcomeRecord, 0)
	for rows.Next() {
		var (
			r    model.OutcomeRecord
			mode string
		)
		err := rows.Scan(&r.ID, &r.RunID, &mode, &r.SourcePath, &r.OutputPath, &r.Provider, &r.Succeeded,
			&r.ErrorKind, &r.ErrorMessage, &r.TextLength, &r.DurationMs, &r.ProcessedAt)
		if err != nil {
			return nil, fmt.Errorf("db scan failed: %w", err)
		}
		r.Mode = model.SaveMode(mode)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return records, nil
}
