package pg

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"whisper-batch/internal/app/model"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS batch_outcomes (
	id            BIGSERIAL PRIMARY KEY,
	run_id        TEXT        NOT NULL,
	mode          TEXT        NOT NULL,
	source_path   TEXT        NOT NULL,
	output_path   TEXT        NOT NULL DEFAULT '',
	provider      TEXT        NOT NULL DEFAULT '',
	succeeded     BOOLEAN     NOT NULL DEFAULT FALSE,
	error_kind    TEXT        NOT NULL DEFAULT '',
	error_message TEXT        NOT NULL DEFAULT '',
	text_length   INTEGER     NOT NULL DEFAULT 0,
	duration_ms   BIGINT      NOT NULL DEFAULT 0,
	processed_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_batch_outcomes_run_id ON batch_outcomes (run_id);`

const selectColumns = `SELECT id, run_id, mode, source_path, output_path, provider, succeeded,
		error_kind, error_message, text_length, duration_ms, processed_at
	FROM batch_outcomes`

type HistoryDB struct {
	db *sql.DB
}

func NewHistoryDB(connectionString string) (*HistoryDB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, err
	}
	return &HistoryDB{db: db}, nil
}

func (pdb *HistoryDB) Close() error {
	return pdb.db.Close()
}

func (pdb *HistoryDB) EnsureSchema() error {
	if _, err := pdb.db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

func (pdb *HistoryDB) RecordOutcome(r model.OutcomeRecord) error {
	insertSQL := `INSERT INTO batch_outcomes (run_id, mode, source_path, output_path, provider, succeeded, error_kind, error_message, text_length, duration_ms, processed_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`
	_, err := pdb.db.Exec(insertSQL, r.RunID, string(r.Mode), r.SourcePath, r.OutputPath, r.Provider, r.Succeeded,
		r.ErrorKind, r.ErrorMessage, r.TextLength, r.DurationMs, r.ProcessedAt)
	if err != nil {
		return fmt.Errorf("insert failed: %w", err)
	}
	return nil
}

func (pdb *HistoryDB) ListByRun(runID string) ([]model.OutcomeRecord, error) {
	rows, err := pdb.db.Query(selectColumns+` WHERE run_id = $1 ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return scanRecords(rows)
}

func (pdb *HistoryDB) ListRecent(limit int) ([]model.OutcomeRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := pdb.db.Query(selectColumns+` ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]model.OutcomeRecord, error) {
	defer rows.Close()

	var records []model.OutcomeRecord
	for rows.Next() {
		var (
			r    model.OutcomeRecord
			mode string
		)
		err := rows.Scan(&r.ID, &r.RunID, &mode, &r.SourcePath, &r.OutputPath, &r.Provider, &r.Succeeded,
			&r.ErrorKind, &r.ErrorMessage, &r.TextLength, &r.DurationMs, &r.ProcessedAt)
		if err != nil {
			return nil, fmt.Errorf("db scan failed: %v", err)
		}
		r.Mode = model.SaveMode(mode)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %v", err)
	}
	return records, nil
}
