package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ImportLogTable records the outcome of the latest import run.
const ImportLogTable = "import_log"

type ImportLogStore struct {
	db     *sqlx.DB
	tables *TableStore
}

func (s *ImportLogStore) Record(ctx context.Context, entries []ImportLogEntry) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	create := `CREATE TABLE IF NOT EXISTS import_log (
		run_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		file_name TEXT NOT NULL,
		table_name TEXT,
		status TEXT NOT NULL,
		row_count INTEGER NOT NULL,
		message TEXT,
		imported_at TEXT NOT NULL
	)`
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("failed to create import log: %w", err)
	}

	query := `INSERT INTO import_log (
		run_id,
		seq,
		file_name,
		table_name,
		status,
		row_count,
		message,
		imported_at
	) VALUES (
		:run_id,
		:seq,
		:file_name,
		:table_name,
		:status,
		:row_count,
		:message,
		:imported_at
	)`

	for i := range entries {
		if _, err := tx.NamedExecContext(ctx, query, &entries[i]); err != nil {
			return fmt.Errorf("failed to record import of %s: %w", entries[i].FileName, err)
		}
	}

	return tx.Commit()
}

// Latest returns the entries of the most recent run, in processing order.
func (s *ImportLogStore) Latest(ctx context.Context) ([]ImportLogEntry, error) {
	if _, err := s.tables.Schema(ctx, ImportLogTable); err != nil {
		if errors.Is(err, ErrTableNotFound) {
			return nil, nil
		}
		return nil, err
	}

	query := `SELECT run_id, seq, file_name, COALESCE(table_name, '') AS table_name, status,
		row_count, COALESCE(message, '') AS message, imported_at
		FROM import_log
		WHERE run_id = (SELECT run_id FROM import_log ORDER BY imported_at DESC, seq DESC LIMIT 1)
		ORDER BY seq`

	var entries []ImportLogEntry
	if err := s.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("failed to read import log: %w", err)
	}
	return entries, nil
}
