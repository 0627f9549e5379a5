package jobfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brookesia/internal/jobfile"
)

func TestWriteFileReadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "jobs", "methane.txt")
	want := sampleJob(t)
	require.NoError(t, jobfile.WriteFile(path, want))

	got, err := jobfile.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, want.Pipeline, got.Pipeline)
	assert.Len(t, got.Cases, len(want.Cases))

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	expected, err := jobfile.Marshal(want)
	require.NoError(t, err)
	assert.Equal(t, string(expected), string(onDisk))
}

func TestWriteFileLocked(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "job.txt")
	lock := flock.New(jobfile.LockPath(path))
	ok, err := lock.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	t.Cleanup(func() { _ = lock.Unlock() })

	err = jobfile.WriteFile(path, sampleJob(t))
	require.ErrorIs(t, err, jobfile.ErrLocked)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestReadFileReportsPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.txt")
	require.NoError(t, os.WriteFile(path, []byte("#======> Case 1\nconfig = nope\n"), 0o644))

	_, err := jobfile.ReadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
	assert.Contains(t, err.Error(), "line 2")
}
