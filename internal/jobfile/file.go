package jobfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"brookesia/internal/fileutil"
	"brookesia/internal/job"
)

// ErrLocked reports a job file another process is currently writing.
var ErrLocked = errors.New("job file is locked by another writer")

// LockPath returns the advisory lock file guarding path.
func LockPath(path string) string {
	return path + ".lock"
}

// ReadFile parses the job file at path.
func ReadFile(path string, opts ...Option) (*job.Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open job file: %w", err)
	}
	defer f.Close()

	j, err := Decode(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return j, nil
}

// WriteFile renders j and replaces path atomically. Concurrent writers are
// rejected with ErrLocked instead of interleaving.
func WriteFile(path string, j *job.Job) error {
	data, err := Marshal(j)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create job directory: %w", err)
	}
	lock := flock.New(LockPath(path))
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return ErrLocked
	}
	defer func() { _ = lock.Unlock() }()

	if err := fileutil.WriteAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write job file: %w", err)
	}
	return nil
}
