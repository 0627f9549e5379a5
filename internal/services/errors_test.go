package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"brookesia/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "engine", "start", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"engine", "start", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestExitCodeMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, services.ExitOK},
		{services.Wrap(services.ErrValidation, "job", "validate", "bad range", nil), services.ExitValidation},
		{fmt.Errorf("load: %w", services.ErrConfiguration), services.ExitConfiguration},
		{services.Wrap(services.ErrNotFound, "store", "get", "", nil), services.ExitNotFound},
		{services.Wrap(services.ErrExternalTool, "engine", "", "", errors.New("exec")), services.ExitExternalTool},
		{errors.New("plain"), services.ExitFailure},
	}
	for _, tc := range cases {
		if got := services.ExitCode(tc.err); got != tc.want {
			t.Fatalf("ExitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
