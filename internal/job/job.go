package job

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrorCalculation selects how target errors are sampled.
type ErrorCalculation string

const (
	ErrorCalculationPoints ErrorCalculation = "points"
	ErrorCalculationQoI    ErrorCalculation = "QoI"
)

// ErrorCoupling selects how errors across cases are combined.
type ErrorCoupling string

const (
	ErrorCouplingMean ErrorCoupling = "mean"
	ErrorCouplingMax  ErrorCoupling = "max"
)

// ExternalResults points the engine at reference data computed elsewhere.
type ExternalResults struct {
	File      string `json:"file" yaml:"file"`
	ConcUnits string `json:"conc_units" yaml:"conc_units"`
	DataType  string `json:"data_type" yaml:"data_type"`
}

// MainParams are the job-wide settings.
type MainParams struct {
	WorkDir          string           `json:"main_path" yaml:"main_path"`
	Mechanism        string           `json:"mech" yaml:"mech"`
	ReducedMechanism string           `json:"mech_prev_red,omitempty" yaml:"mech_prev_red,omitempty"`
	External         *ExternalResults `json:"external,omitempty" yaml:"external,omitempty"`
	Verbose          int              `json:"verbose" yaml:"verbose"`
	ShowPlots        bool             `json:"show_plots" yaml:"show_plots"`
	ErrorCalculation ErrorCalculation `json:"error_calculation" yaml:"error_calculation"`
	ErrorCoupling    ErrorCoupling    `json:"error_coupling" yaml:"error_coupling"`
}

// Job is one editing session: everything the engine needs to run a
// reduction.
type Job struct {
	Main     MainParams `json:"main" yaml:"main"`
	Targets  Targets    `json:"targets" yaml:"targets"`
	Cases    []Case     `json:"cases" yaml:"cases"`
	Pipeline Pipeline   `json:"pipeline" yaml:"pipeline"`
}

// AddCase appends a default case of the given kind and returns its index.
func (j *Job) AddCase(kind ConfigKind) int {
	j.Cases = append(j.Cases, NewCase(kind))
	return len(j.Cases) - 1
}

// DeactivateCase soft-deletes a case. The slot stays in place so the
// indices of other cases do not move.
func (j *Job) DeactivateCase(i int) error {
	if i < 0 || i >= len(j.Cases) {
		return fmt.Errorf("case index %d out of range", i)
	}
	j.Cases[i].Active = false
	return nil
}

// ActiveCases returns the active cases in order.
func (j *Job) ActiveCases() []Case {
	var out []Case
	for _, c := range j.Cases {
		if c.Active {
			out = append(out, c)
		}
	}
	return out
}

// NewReduction returns a default reduction keyed on the job's targets.
func (j *Job) NewReduction(method Method) ReductionStage {
	return NewReductionStage(method, j.Targets.Keys())
}

// AddSpeciesTarget appends a species target and re-keys every threshold
// table. Adding a species twice is a no-op.
func (j *Job) AddSpeciesTarget(name string) {
	name = strings.TrimSpace(name)
	if name == "" || j.Targets.HasSpecies(name) {
		return
	}
	j.Targets.Species = append(j.Targets.Species, name)
	j.SyncThresholds()
}

// RemoveSpeciesTarget drops a species target and its threshold rows.
func (j *Job) RemoveSpeciesTarget(name string) {
	idx := slices.Index(j.Targets.Species, name)
	if idx < 0 {
		return
	}
	j.Targets.Species = slices.Delete(j.Targets.Species, idx, idx+1)
	j.SyncThresholds()
}

// SetBuiltinTarget toggles a built-in target.
func (j *Job) SetBuiltinTarget(kind TargetKind, enabled bool) error {
	target := j.Targets.Builtin(kind)
	if target == nil {
		return fmt.Errorf("%s is not a built-in target", kind.Label())
	}
	target.Enabled = enabled
	j.SyncThresholds()
	return nil
}

// SyncThresholds re-keys every reduction's threshold table on the current
// targets.
func (j *Job) SyncThresholds() {
	keys := j.Targets.Keys()
	for i := range j.Pipeline.Reductions {
		j.Pipeline.Reductions[i].Errors = j.Pipeline.Reductions[i].Errors.Rekey(keys)
	}
}

// Validate checks that the job can be written out. Inactive cases are not
// inspected.
func (j *Job) Validate() error {
	var errs []error
	if j.Main.ErrorCalculation != ErrorCalculationPoints && j.Main.ErrorCalculation != ErrorCalculationQoI {
		errs = append(errs, fmt.Errorf("unknown error calculation %q", j.Main.ErrorCalculation))
	}
	if j.Main.ErrorCoupling != ErrorCouplingMean && j.Main.ErrorCoupling != ErrorCouplingMax {
		errs = append(errs, fmt.Errorf("unknown error coupling %q", j.Main.ErrorCoupling))
	}
	n := 0
	for i := range j.Cases {
		if !j.Cases[i].Active {
			continue
		}
		n++
		if err := j.Cases[i].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("case %d: %w", n, err))
		}
	}
	if err := j.Pipeline.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
