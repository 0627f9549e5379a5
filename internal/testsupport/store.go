package testsupport

import (
	"context"
	"testing"

	"brookesia/internal/config"
	"brookesia/internal/jobstore"
)

// MustOpenStore opens a jobstore.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *jobstore.Store {
	t.Helper()

	store, err := jobstore.Open(cfg)
	if err != nil {
		t.Fatalf("jobstore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SaveDraft stores a draft for tests using the provided store.
func SaveDraft(t testing.TB, store *jobstore.Store, name, content string) *jobstore.Draft {
	t.Helper()

	draft, err := store.Save(context.Background(), name, content, jobstore.Summary{Cases: 1, Stages: 1})
	if err != nil {
		t.Fatalf("store.Save: %v", err)
	}
	return draft
}
