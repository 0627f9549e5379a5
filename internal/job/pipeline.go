package job

import (
	"errors"
	"fmt"
)

// ErrInvalidPlacement reports an optimization stage that neither leads the
// pipeline nor directly follows a reduction without one.
var ErrInvalidPlacement = errors.New("optimization must lead the pipeline or directly follow a reduction")

// Pipeline is the ordered list of operator stages. A GA stage either runs
// first, before any reduction, or is bound to the reduction it follows.
type Pipeline struct {
	Leading    *OptimizationStage `json:"leading,omitempty" yaml:"leading,omitempty"`
	Reductions []ReductionStage   `json:"reductions" yaml:"reductions"`
}

// StageKind tags a flat pipeline entry.
type StageKind int

const (
	StageReduction StageKind = iota
	StageOptimization
)

func (k StageKind) String() string {
	if k == StageOptimization {
		return "GA"
	}
	return "reduction"
}

// Stage is one entry of the flat pipeline view. Exactly one of Reduction
// and Optimization is set.
type Stage struct {
	Reduction    *ReductionStage
	Optimization *OptimizationStage
}

// Kind reports which variant s holds.
func (s Stage) Kind() StageKind {
	if s.Optimization != nil {
		return StageOptimization
	}
	return StageReduction
}

// Name returns the operator label shown for the stage.
func (s Stage) Name() string {
	if s.Reduction != nil {
		return string(s.Reduction.Method)
	}
	return "GA"
}

// Stages returns the flat view in execution order. The pointers alias the
// pipeline so callers may edit stages in place.
func (p *Pipeline) Stages() []Stage {
	out := make([]Stage, 0, p.Len())
	if p.Leading != nil {
		out = append(out, Stage{Optimization: p.Leading})
	}
	for i := range p.Reductions {
		r := &p.Reductions[i]
		out = append(out, Stage{Reduction: r})
		if r.Optimization != nil {
			out = append(out, Stage{Optimization: r.Optimization})
		}
	}
	return out
}

// Len returns the number of flat stages.
func (p *Pipeline) Len() int {
	n := len(p.Reductions)
	if p.Leading != nil {
		n++
	}
	for i := range p.Reductions {
		if p.Reductions[i].Optimization != nil {
			n++
		}
	}
	return n
}

// Empty reports a pipeline with no stage at all.
func (p *Pipeline) Empty() bool {
	return p.Len() == 0
}

// InsertReduction inserts r at flat index i. A GA already sitting at i
// becomes bound to r.
func (p *Pipeline) InsertReduction(i int, r ReductionStage) error {
	return p.insert(i, Stage{Reduction: &r})
}

// InsertOptimization inserts o at flat index i. It fails with
// ErrInvalidPlacement unless i is 0 or the stage before i is a reduction
// with no GA of its own.
func (p *Pipeline) InsertOptimization(i int, o OptimizationStage) error {
	return p.insert(i, Stage{Optimization: &o})
}

func (p *Pipeline) insert(i int, s Stage) error {
	stages := p.Stages()
	if i < 0 || i > len(stages) {
		return fmt.Errorf("stage index %d out of range [0,%d]", i, len(stages))
	}
	stages = append(stages[:i], append([]Stage{s}, stages[i:]...)...)
	rebuilt, err := assemble(stages)
	if err != nil {
		return err
	}
	*p = rebuilt
	return nil
}

// Remove splices out the stage at flat index i and shifts the rest down.
// Removing a reduction also removes the GA bound to it.
func (p *Pipeline) Remove(i int) error {
	stages := p.Stages()
	if i < 0 || i >= len(stages) {
		return fmt.Errorf("stage index %d out of range [0,%d)", i, len(stages))
	}
	n := 1
	if r := stages[i].Reduction; r != nil && r.Optimization != nil {
		n = 2
	}
	stages = append(stages[:i], stages[i+n:]...)
	rebuilt, err := assemble(stages)
	if err != nil {
		return err
	}
	*p = rebuilt
	return nil
}

// assemble rebuilds the structural form from a flat list, binding every GA
// to the reduction right before it.
func assemble(stages []Stage) (Pipeline, error) {
	var p Pipeline
	for i, s := range stages {
		switch {
		case s.Reduction != nil:
			r := *s.Reduction
			r.Optimization = nil
			p.Reductions = append(p.Reductions, r)
		case s.Optimization != nil:
			o := *s.Optimization
			if i == 0 {
				p.Leading = &o
				continue
			}
			if stages[i-1].Reduction == nil {
				return Pipeline{}, fmt.Errorf("stage %d: %w", i, ErrInvalidPlacement)
			}
			last := &p.Reductions[len(p.Reductions)-1]
			if o.Binding != nil {
				o.Binding = &MethodBinding{Family: last.Method.Family()}
			}
			last.Optimization = &o
		}
	}
	return p, nil
}

// Validate checks every stage.
func (p *Pipeline) Validate() error {
	var errs []error
	if p.Leading != nil {
		if err := p.Leading.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("leading GA: %w", err))
		}
	}
	for i := range p.Reductions {
		if err := p.Reductions[i].Validate(); err != nil {
			errs = append(errs, fmt.Errorf("operator %d (%s): %w", i+1, p.Reductions[i].Method, err))
		}
	}
	return errors.Join(errs...)
}
