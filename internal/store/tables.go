package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

var ErrTableNotFound = errors.New("table not found")

type TableStore struct {
	db *sqlx.DB
}

/*
Replace loads t into a staging table and swaps it in for the live table in a
single transaction. Readers see either the previous table or the complete new
one, never a partial load.
*/
func (s *TableStore) Replace(ctx context.Context, t *Table) error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("table %s has no columns", t.Name)
	}

	staging := t.Name + "__staging"

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for %s: %w", t.Name, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(staging)); err != nil {
		return fmt.Errorf("failed to drop staging table %s: %w", staging, err)
	}

	defs := make([]string, 0, len(t.Columns)+1)
	names := make([]string, 0, len(t.Columns)+1)
	defs = append(defs, quoteIdent(RowColumn)+" INTEGER")
	names = append(names, quoteIdent(RowColumn))
	for _, c := range t.Columns {
		defs = append(defs, quoteIdent(c.Name)+" "+c.Type.sqlType())
		names = append(names, quoteIdent(c.Name))
	}

	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(staging), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("failed to create staging table %s: %w", staging, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ")
	insert := tx.Rebind(fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(staging), strings.Join(names, ", "), placeholders))

	stmt, err := tx.PreparexContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("failed to prepare insert for %s: %w", t.Name, err)
	}
	defer stmt.Close()

	args := make([]any, len(names))
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("row %d of %s has %d values, want %d", i+1, t.Name, len(row), len(t.Columns))
		}
		args[0] = i + 1
		copy(args[1:], row)
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert row %d into %s: %w", i+1, t.Name, err)
		}
	}
	if err := stmt.Close(); err != nil {
		return fmt.Errorf("failed to close insert for %s: %w", t.Name, err)
	}

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(t.Name)); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", t.Name, err)
	}
	rename := fmt.Sprintf("ALTER TABLE %s RENAME TO %s", quoteIdent(staging), quoteIdent(t.Name))
	if _, err := tx.ExecContext(ctx, rename); err != nil {
		return fmt.Errorf("failed to swap in table %s: %w", t.Name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit table %s: %w", t.Name, err)
	}
	return nil
}

// Drop removes the named tables in one transaction. Absent tables are ignored.
func (s *TableStore) Drop(ctx context.Context, names ...string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, name := range names {
		if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(name)); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", name, err)
		}
	}
	return tx.Commit()
}

// Schema lists the columns of a table in declaration order. It returns
// ErrTableNotFound when the table does not exist.
func (s *TableStore) Schema(ctx context.Context, name string) (*TableSchema, error) {
	var query string
	if s.isPostgres() {
		query = `SELECT column_name FROM information_schema.columns
			WHERE table_schema = current_schema() AND table_name = $1
			ORDER BY ordinal_position`
	} else {
		query = `SELECT name FROM pragma_table_info(?) ORDER BY cid`
	}

	var cols []string
	if err := s.db.SelectContext(ctx, &cols, query, name); err != nil {
		return nil, fmt.Errorf("failed to read schema of %s: %w", name, err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}

	return &TableSchema{Name: name, Columns: cols}, nil
}

// Rows returns every row of a table in import order, including the row
// ordinal as first value.
func (s *TableStore) Rows(ctx context.Context, name string) ([][]any, error) {
	schema, err := s.Schema(ctx, name)
	if err != nil {
		return nil, err
	}

	query := "SELECT * FROM " + quoteIdent(name)
	if schema.Has(RowColumn) {
		query += " ORDER BY " + quoteIdent(RowColumn)
	}

	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", name, err)
	}
	defer rows.Close()

	var out [][]any
	for rows.Next() {
		vals, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("failed to scan row of %s: %w", name, err)
		}
		out = append(out, vals)
	}
	return out, rows.Err()
}

func (s *TableStore) isPostgres() bool {
	return isPostgres(s.db)
}

func isPostgres(db *sqlx.DB) bool {
	switch db.DriverName() {
	case "postgres", "pgx", "pq":
		return true
	}
	return false
}
