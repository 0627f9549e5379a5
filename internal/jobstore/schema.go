package jobstore

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var draftsSchema string

// migrations[i] moves the database from user_version i to i+1.
var migrations = []string{
	draftsSchema,
	`CREATE INDEX idx_drafts_status ON drafts(status)`,
}

// ErrSchemaMismatch reports a database written by a newer brookesia.
var ErrSchemaMismatch = errors.New("schema version mismatch")

func schemaVersion() int { return len(migrations) }

// migrate applies every pending migration in one transaction and records
// the result in PRAGMA user_version.
func (s *Store) migrate(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	switch {
	case version == schemaVersion():
		return nil
	case version > schemaVersion():
		return fmt.Errorf("%w: %s has version %d, this build knows %d",
			ErrSchemaMismatch, s.path, version, schemaVersion())
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for v := version; v < schemaVersion(); v++ {
		if _, err := tx.ExecContext(ctx, migrations[v]); err != nil {
			return fmt.Errorf("migrate to version %d: %w", v+1, err)
		}
	}
	// PRAGMA takes no bound parameters; the value is an int we control.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion())); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}
