package db

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// ErrStoreLocked is returned when the store file cannot be removed before a rebuild.
var ErrStoreLocked = errors.New("store is locked or cannot be deleted")

// Config selects and tunes a store backend.
type Config struct {
	Driver       string // "sqlite" or "postgres"
	Addr         string // file path for sqlite, DSN for postgres
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  string
}

func New(cfg Config) (*sqlx.DB, error) {
	dsn := cfg.Addr
	if cfg.Driver == "sqlite" {
		dsn = sqliteDSN(cfg.Addr)
	}

	db, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach %s store: %w", cfg.Driver, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	if cfg.MaxIdleTime != "" {
		duration, err := time.ParseDuration(cfg.MaxIdleTime)
		if err != nil {
			db.Close()
			return nil, err
		}
		db.SetConnMaxIdleTime(duration)
	}

	return db, nil
}

// sqliteDSN applies the pragmas to every pooled connection. LIKE is made
// case-sensitive so prefix filters match PostgreSQL.
func sqliteDSN(path string) string {
	return "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=case_sensitive_like(1)"
}

// RemoveFile deletes a SQLite store together with its journal sidecars.
// A missing file is not an error.
func RemoveFile(path string) error {
	for _, p := range []string{path, path + "-wal", path + "-shm", path + "-journal"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s: %v", ErrStoreLocked, p, err)
		}
	}
	return nil
}
