package logging

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
)

// consoleHandler writes one line per record:
//
//	2024-05-01 10:00:00 INFO engine[methane]: engine started case.n=1 ...
//
// The component and job name move into the prefix; every other attr is a
// key=value pair with group names joined by dots.
type consoleHandler struct {
	out       *consoleOutput
	level     slog.Leveler
	group     string
	fields    []field
	addSource bool
}

type consoleOutput struct {
	mu sync.Mutex
	w  io.Writer
}

type field struct {
	key   string
	value slog.Value
}

func newConsoleHandler(w io.Writer, lvl slog.Leveler, addSource bool) slog.Handler {
	return &consoleHandler{out: &consoleOutput{w: w}, level: lvl, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	fields := slices.Clip(h.fields)
	r.Attrs(func(a slog.Attr) bool {
		fields = appendFields(fields, h.group, a)
		return true
	})

	var component, jobName string
	pairs := fields[:0:0]
	for _, f := range fields {
		switch {
		case f.key == FieldComponent && component == "":
			component = plainValue(f.value)
		case f.key == FieldJob && jobName == "":
			jobName = plainValue(f.value)
		case f.key == FieldComponent, f.key == FieldJob:
		default:
			pairs = append(pairs, f)
		}
	}

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	var b strings.Builder
	b.WriteString(consoleTime(ts))
	b.WriteByte(' ')
	b.WriteString(levelLabel(r.Level))
	b.WriteByte(' ')
	if prefix := linePrefix(component, jobName); prefix != "" {
		b.WriteString(prefix)
		b.WriteString(": ")
	}
	if msg := strings.TrimSpace(r.Message); msg != "" {
		b.WriteString(msg)
	} else {
		b.WriteString("(no message)")
	}
	if h.addSource {
		if src := r.Source(); src != nil {
			b.WriteString(" [" + sourceRef(src) + "]")
		}
	}
	for _, f := range pairs {
		b.WriteByte(' ')
		b.WriteString(f.key)
		b.WriteByte('=')
		b.WriteString(consoleValue(f.value))
	}
	b.WriteByte('\n')

	h.out.mu.Lock()
	defer h.out.mu.Unlock()
	_, err := io.WriteString(h.out.w, b.String())
	return err
}

// linePrefix renders "component[job]", dropping whichever part is unset.
func linePrefix(component, jobName string) string {
	if jobName == "" {
		return component
	}
	return component + "[" + jobName + "]"
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.fields = slices.Clip(h.fields)
	for _, a := range attrs {
		clone.fields = appendFields(clone.fields, h.group, a)
	}
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.group = joinKey(h.group, name)
	return &clone
}

// appendFields flattens a into dst, prefixing keys with the open group
// path. Empty attrs are dropped and inline groups keep their parent path.
func appendFields(dst []field, group string, a slog.Attr) []field {
	if a.Equal(slog.Attr{}) {
		return dst
	}
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		if a.Key != "" {
			group = joinKey(group, a.Key)
		}
		for _, child := range v.Group() {
			dst = appendFields(dst, group, child)
		}
		return dst
	}
	key := a.Key
	if key == "" {
		key = group
	} else {
		key = joinKey(group, key)
	}
	return append(dst, field{key: key, value: v})
}

func joinKey(group, key string) string {
	if group == "" {
		return key
	}
	return group + "." + key
}
