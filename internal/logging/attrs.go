package logging

import (
	"context"
	"log/slog"

	"brookesia/internal/job"
)

type Attr = slog.Attr

func Int(key string, value int) Attr { return slog.Int(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

// Path records a job file or condition file location.
func Path(p string) Attr { return slog.String(FieldPath, p) }

func Error(err error) Attr {
	if err == nil {
		return slog.String(FieldError, "<nil>")
	}
	return slog.Any(FieldError, err)
}

// JobShape summarizes what a job will ask of the engine without dumping
// its parameters. A nil job yields an empty attr, which handlers drop.
func JobShape(j *job.Job) Attr {
	if j == nil {
		return Attr{}
	}
	return slog.Group(FieldJobShape,
		slog.String("mechanism", j.Main.Mechanism),
		slog.Int("cases", len(j.Cases)),
		slog.Int("active", len(j.ActiveCases())),
		slog.Int("stages", j.Pipeline.Len()),
		slog.Int("targets", len(j.Targets.Keys())),
	)
}

// CaseRef identifies a condition case by its 1-based position, the way
// the job file numbers it, and the number of sweep points it expands to.
func CaseRef(index int, c job.Case) Attr {
	points := c.Pressure.Count() * c.Burner1.Temperature.Count() * c.Burner1.Phi.Count()
	return slog.Group(FieldCase,
		slog.Int("n", index+1),
		slog.String("config", string(c.Kind)),
		slog.Int("points", points),
	)
}

// StageRef identifies a pipeline stage by 1-based position and operator.
func StageRef(index int, s job.Stage) Attr {
	return slog.Group(FieldStage,
		slog.Int("n", index+1),
		slog.String("op", s.Name()),
	)
}

func Args(attrs ...Attr) []any {
	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		args = append(args, attr)
	}
	return args
}

func NewNop() *slog.Logger {
	return slog.New(noopHandler{})
}

// NewComponentLogger tags logger with a component name. A nil logger
// becomes a no-op logger.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// WarnWithContext logs a warning that always carries event_type and
// error_hint so operators can filter and act on it.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	hasEvent, hasHint := false, false
	for _, a := range attrs {
		hasEvent = hasEvent || a.Key == FieldEventType
		hasHint = hasHint || a.Key == FieldErrorHint
	}
	if !hasEvent {
		attrs = append(attrs, String(FieldEventType, eventType))
	}
	if !hasHint {
		attrs = append(attrs, String(FieldErrorHint, "check logs for details"))
	}
	logger.Warn(msg, Args(attrs...)...)
}

type noopHandler struct{}

func (noopHandler) Enabled(context.Context, slog.Level) bool { return false }

func (noopHandler) Handle(context.Context, slog.Record) error { return nil }

func (h noopHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h noopHandler) WithGroup(string) slog.Handler { return h }
