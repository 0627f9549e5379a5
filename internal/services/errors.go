package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
)

// Exit codes returned by the CLI.
const (
	ExitOK            = 0
	ExitFailure       = 1
	ExitValidation    = 2
	ExitConfiguration = 3
	ExitNotFound      = 4
	ExitExternalTool  = 5
)

// Wrap builds an error message that includes command context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, scope, operation, message string, err error) error {
	detail := buildDetail(scope, operation, message)
	if marker == nil {
		if err == nil {
			return errors.New(detail)
		}
		return fmt.Errorf("%s: %w", detail, err)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrValidation):
		return ExitValidation
	case errors.Is(err, ErrConfiguration):
		return ExitConfiguration
	case errors.Is(err, ErrNotFound):
		return ExitNotFound
	case errors.Is(err, ErrExternalTool):
		return ExitExternalTool
	default:
		return ExitFailure
	}
}

func buildDetail(scope, operation, message string) string {
	parts := make([]string, 0, 3)
	if scope = strings.TrimSpace(scope); scope != "" {
		parts = append(parts, scope)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "command failure"
	}
	return strings.Join(parts, ": ")
}
