package logging

import (
	"context"
	"log/slog"

	"brookesia/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldJob is the standardized structured logging key for job names.
	FieldJob = "job"
	// FieldStoreID is the standardized structured logging key for draft store identifiers.
	FieldStoreID = "store_id"
	// FieldCommand is the standardized structured logging key for CLI command paths.
	FieldCommand = "command"
	// FieldCorrelationID is the standardized structured logging key for request correlation identifiers.
	FieldCorrelationID = "correlation_id"
	// FieldEventType classifies warnings for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step after a failure.
	FieldErrorHint = "error_hint"
	FieldError     = "error"
	FieldPath      = "path"
	// FieldJobShape groups the size of a job: cases, stages and targets.
	FieldJobShape = "job_shape"
	FieldCase     = "case"
	FieldStage    = "stage"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 4)
	if cmd, ok := services.CommandFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCommand, cmd))
	}
	if name, ok := services.JobNameFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldJob, name))
	}
	if id, ok := services.StoreIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStoreID, id))
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCorrelationID, rid))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
