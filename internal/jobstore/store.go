package jobstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"brookesia/internal/config"
)

// Store manages draft persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	busyAttempts   = 5
	busyFirstDelay = 10 * time.Millisecond
	busyMaxDelay   = 200 * time.Millisecond
)

// connPragmas run on every pooled connection, not just the first.
var connPragmas = []string{
	"busy_timeout(5000)",
	"journal_mode(WAL)",
}

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isBusy(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	code := serr.Code() & 0xff
	return code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED
}

// withBusyRetry reruns op with doubling delays while another brookesia
// process holds the write lock past busy_timeout.
func withBusyRetry[T any](ctx context.Context, op func(context.Context) (T, error)) (T, error) {
	delay := busyFirstDelay
	for attempt := 1; ; attempt++ {
		out, err := op(ctx)
		if err == nil || !isBusy(err) || attempt == busyAttempts {
			return out, err
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
		delay = min(delay*2, busyMaxDelay)
	}
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return withBusyRetry(ensureContext(ctx), func(ctx context.Context) (sql.Result, error) {
		return s.db.ExecContext(ctx, query, args...)
	})
}

// Open connects to the draft database under the state directory, creating
// or upgrading its schema as needed.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	path := cfg.StorePath()
	db, err := sql.Open("sqlite", storeDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	store := &Store{db: db, path: path}
	if err := store.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func storeDSN(path string) string {
	dsn := path
	for i, p := range connPragmas {
		sep := "&"
		if i == 0 {
			sep = "?"
		}
		dsn += sep + "_pragma=" + p
	}
	return dsn
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
