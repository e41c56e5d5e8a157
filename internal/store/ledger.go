package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

type LedgerStore struct {
	db     *sqlx.DB
	tables *TableStore
}

/*
Postings reads the actuals or obligations rows that belong to projectKey: rows
whose precomputed main project equals the key, or whose object code starts
with it. Column presence is checked against the table schema first; absent
optional columns are read as blank, and a missing table or a missing code or
amount column yields an empty set.
*/
func (l *LedgerStore) Postings(ctx context.Context, src PostingSource, projectKey string) (*PostingSet, error) {
	set := &PostingSet{}

	schema, err := l.tables.Schema(ctx, src.Table)
	if errors.Is(err, ErrTableNotFound) {
		set.TableMissing = true
		return set, nil
	}
	if err != nil {
		return nil, err
	}

	for _, required := range []string{src.Code, src.Amount} {
		if !schema.Has(required) {
			set.Missing = append(set.Missing, required)
		}
	}
	if len(set.Missing) > 0 {
		return set, nil
	}

	text := func(col string) string {
		if col == "" {
			return "''"
		}
		if !schema.Has(col) {
			set.Missing = append(set.Missing, col)
			return "''"
		}
		return fmt.Sprintf("COALESCE(CAST(%s AS TEXT), '')", quoteIdent(col))
	}

	selects := []string{
		text(src.Code) + " AS object_code",
		text(src.Order) + " AS order_ref",
		text(src.Description) + " AS description",
		text(src.Period) + " AS period",
		fmt.Sprintf("COALESCE(%s, 0) AS amount", quoteIdent(src.Amount)),
	}

	var (
		conds []string
		args  []any
	)
	if src.Project != "" && schema.Has(src.Project) {
		conds = append(conds, quoteIdent(src.Project)+" = ?")
		args = append(args, projectKey)
	}
	conds = append(conds, quoteIdent(src.Code)+` LIKE ? ESCAPE '\'`)
	args = append(args, escapeLike(projectKey)+"%")

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s",
		strings.Join(selects, ", "), quoteIdent(src.Table), strings.Join(conds, " OR "))
	if schema.Has(RowColumn) {
		query += " ORDER BY " + quoteIdent(RowColumn)
	}

	if err := l.db.SelectContext(ctx, &set.Rows, l.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to query postings from %s: %w", src.Table, err)
	}
	return set, nil
}

// Budget reads budget lines whose match columns contain projectKey as a substring.
func (l *LedgerStore) Budget(ctx context.Context, src BudgetSource, projectKey string) (*BudgetSet, error) {
	set := &BudgetSet{}

	schema, err := l.tables.Schema(ctx, src.Table)
	if errors.Is(err, ErrTableNotFound) {
		set.TableMissing = true
		return set, nil
	}
	if err != nil {
		return nil, err
	}

	if !schema.Has(src.Amount) {
		set.Missing = append(set.Missing, src.Amount)
		return set, nil
	}

	var match []string
	for _, col := range src.Match {
		if schema.Has(col) {
			match = append(match, col)
		} else {
			set.Missing = append(set.Missing, col)
		}
	}
	if len(match) == 0 {
		return set, nil
	}

	description := "''"
	if schema.Has(src.Description) {
		description = fmt.Sprintf("COALESCE(CAST(%s AS TEXT), '')", quoteIdent(src.Description))
	} else if src.Description != "" {
		set.Missing = append(set.Missing, src.Description)
	}

	pattern := "%" + escapeLike(projectKey) + "%"
	conds := make([]string, len(match))
	args := make([]any, len(match))
	for i, col := range match {
		conds[i] = fmt.Sprintf(`CAST(%s AS TEXT) LIKE ? ESCAPE '\'`, quoteIdent(col))
		args[i] = pattern
	}

	query := fmt.Sprintf(
		"SELECT COALESCE(CAST(%s AS TEXT), '') AS element, %s AS description, COALESCE(%s, 0) AS amount FROM %s WHERE %s",
		quoteIdent(match[0]), description, quoteIdent(src.Amount), quoteIdent(src.Table), strings.Join(conds, " OR "))
	if schema.Has(RowColumn) {
		query += " ORDER BY " + quoteIdent(RowColumn)
	}

	if err := l.db.SelectContext(ctx, &set.Rows, l.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to query budget from %s: %w", src.Table, err)
	}
	return set, nil
}

// ProjectCodes returns the distinct non-blank values of column in table.
// A missing table or column yields no codes.
func (l *LedgerStore) ProjectCodes(ctx context.Context, table, column string) ([]string, error) {
	schema, err := l.tables.Schema(ctx, table)
	if errors.Is(err, ErrTableNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !schema.Has(column) {
		return nil, nil
	}

	col := quoteIdent(column)
	query := fmt.Sprintf("SELECT DISTINCT CAST(%s AS TEXT) FROM %s WHERE %s IS NOT NULL ORDER BY 1",
		col, quoteIdent(table), col)

	var codes []string
	if err := l.db.SelectContext(ctx, &codes, query); err != nil {
		return nil, fmt.Errorf("failed to list codes from %s: %w", table, err)
	}
	return codes, nil
}
