package store

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Storage struct {
	Tables interface {
		Replace(ctx context.Context, t *Table) error
		Drop(ctx context.Context, names ...string) error
		Schema(ctx context.Context, name string) (*TableSchema, error)
		Rows(ctx context.Context, name string) ([][]any, error)
	}

	Ledger interface {
		Postings(ctx context.Context, src PostingSource, projectKey string) (*PostingSet, error)
		Budget(ctx context.Context, src BudgetSource, projectKey string) (*BudgetSet, error)
		ProjectCodes(ctx context.Context, table, column string) ([]string, error)
	}

	ImportLog interface {
		Record(ctx context.Context, entries []ImportLogEntry) error
		Latest(ctx context.Context) ([]ImportLogEntry, error)
	}
}

func NewStorage(db *sqlx.DB) *Storage {
	tables := &TableStore{db: db}
	return &Storage{
		Tables:    tables,
		Ledger:    &LedgerStore{db: db, tables: tables},
		ImportLog: &ImportLogStore{db: db, tables: tables},
	}
}
