package services

import "context"

type contextKey string

const (
	jobNameKey   contextKey = "job_name"
	storeIDKey   contextKey = "store_id"
	commandKey   contextKey = "command"
	requestIDKey contextKey = "request_id"
)

// WithJobName annotates context with the job being handled.
func WithJobName(ctx context.Context, name string) context.Context {
	if name == "" {
		return ctx
	}
	return context.WithValue(ctx, jobNameKey, name)
}

// JobNameFromContext returns the job name if present.
func JobNameFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(jobNameKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStoreID annotates context with the draft store identifier.
func WithStoreID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, storeIDKey, id)
}

// StoreIDFromContext extracts the draft store identifier if present.
func StoreIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(storeIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithCommand annotates context with the CLI command path.
func WithCommand(ctx context.Context, command string) context.Context {
	if command == "" {
		return ctx
	}
	return context.WithValue(ctx, commandKey, command)
}

// CommandFromContext returns the command path if present.
func CommandFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(commandKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
