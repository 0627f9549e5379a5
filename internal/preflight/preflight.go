package preflight

import (
	"context"

	"brookesia/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Conditions directory", cfg.Paths.ConditionsDir),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryReadable("Mechanism directory", cfg.Paths.MechanismDir),
	}

	if cfg.Engine.WorkDir != "" {
		results = append(results, CheckDirectoryAccess("Engine working directory", cfg.Engine.WorkDir))
	}

	results = append(results, CheckEngine(ctx, cfg))
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
