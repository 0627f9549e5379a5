package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"brookesia/internal/config"
)

// Kind says how a requirement is located.
type Kind int

const (
	// KindBinary is resolved through PATH.
	KindBinary Kind = iota
	// KindScript is a file handed to the engine interpreter. Relative paths
	// resolve against the engine working directory.
	KindScript
)

// Requirement is something the reduction engine needs before a job can be
// handed off.
type Requirement struct {
	Name     string
	Target   string
	Kind     Kind
	Dir      string
	Optional bool
}

// Status reports whether a requirement was found and where.
type Status struct {
	Requirement
	Resolved  string
	Available bool
	Detail    string
}

// EngineRequirements lists what the configured engine command line needs:
// the interpreter or binary itself and any Python script among its args.
func EngineRequirements(e config.Engine) []Requirement {
	reqs := []Requirement{{Name: "Engine command", Target: strings.TrimSpace(e.Command), Kind: KindBinary}}
	for _, arg := range e.Args {
		if strings.Contains(arg, config.InputPlaceholder) || !strings.HasSuffix(arg, ".py") {
			continue
		}
		reqs = append(reqs, Requirement{Name: "Engine script", Target: arg, Kind: KindScript, Dir: e.WorkDir})
	}
	return reqs
}

// Check resolves each requirement in order.
func Check(reqs []Requirement) []Status {
	out := make([]Status, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, check(req))
	}
	return out
}

func check(req Requirement) Status {
	st := Status{Requirement: req}
	if req.Target == "" {
		st.Detail = "command not configured"
		return st
	}
	switch req.Kind {
	case KindScript:
		path := req.Target
		if !filepath.IsAbs(path) && req.Dir != "" {
			path = filepath.Join(req.Dir, path)
		}
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			st.Detail = fmt.Sprintf("script %q not found", path)
			return st
		}
		st.Resolved = path
	default:
		path, err := exec.LookPath(req.Target)
		if err != nil {
			st.Detail = fmt.Sprintf("binary %q not found", req.Target)
			return st
		}
		st.Resolved = path
	}
	st.Available = true
	return st
}

// Missing filters statuses down to unavailable, non-optional entries.
func Missing(statuses []Status) []Status {
	var out []Status
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			out = append(out, s)
		}
	}
	return out
}
