package job

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Method is a reduction operator.
type Method string

const (
	MethodDRGSpecies    Method = "DRG_sp"
	MethodDRGEPSpecies  Method = "DRGEP_sp"
	MethodDRGReactions  Method = "DRG_r"
	MethodSARSpecies    Method = "SAR_sp"
	MethodSARGEPSpecies Method = "SARGEP_sp"
	MethodSARReactions  Method = "SAR_r"
)

// Methods lists every reduction operator.
var Methods = []Method{
	MethodDRGSpecies,
	MethodDRGEPSpecies,
	MethodDRGReactions,
	MethodSARSpecies,
	MethodSARGEPSpecies,
	MethodSARReactions,
}

// ParseMethod maps a job-file token to its method.
func ParseMethod(token string) (Method, error) {
	for _, m := range Methods {
		if string(m) == token {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown operator %q", token)
}

// Family groups methods by the algorithm behind them.
type Family string

const (
	FamilyDRG Family = "DRG"
	FamilySA  Family = "SA"
)

// ParseFamily maps a job-file token to its family.
func ParseFamily(token string) (Family, error) {
	switch Family(token) {
	case FamilyDRG, FamilySA:
		return Family(token), nil
	}
	return "", fmt.Errorf("unknown method family %q", token)
}

// Family returns the algorithm family of m.
func (m Method) Family() Family {
	if strings.HasPrefix(string(m), "DRG") {
		return FamilyDRG
	}
	return FamilySA
}

// ReductionStage is one species or reaction elimination step.
type ReductionStage struct {
	Method       Method          `json:"method" yaml:"method"`
	Epsilon      float64         `json:"eps" yaml:"eps"`
	DeltaEpsilon float64         `json:"delta_eps" yaml:"delta_eps"`
	Points       int             `json:"n_points" yaml:"n_points"`
	Errors       ErrorThresholds `json:"errors" yaml:"errors"`
	InterSpecies bool            `json:"inter_species" yaml:"inter_species"`
	// SensitivityTol is only read for the SA family. Nil leaves the
	// engine's own tolerance in place.
	SensitivityTol *Tolerance         `json:"sensitivity_tol,omitempty" yaml:"sensitivity_tol,omitempty"`
	Optimization   *OptimizationStage `json:"optimization,omitempty" yaml:"optimization,omitempty"`
}

// Fitness aggregates target errors into a GA fitness value.
type Fitness string

const (
	FitnessMean Fitness = "mean"
	FitnessMax  Fitness = "max"
)

// SelectionOperator picks GA parents.
type SelectionOperator string

const (
	SelectionRoulette  SelectionOperator = "Roulette"
	SelectionRank      SelectionOperator = "Rank"
	SelectionGeometric SelectionOperator = "Geometric_norm"
	SelectionElitism   SelectionOperator = "Elitism"
)

// Crossover and mutation operator names understood by the engine.
const (
	CrossoverSimple     = "simple_Xover"
	CrossoverMultiple   = "multiple_Xover"
	CrossoverArithmetic = "arith_Xover"
	CrossoverHeuristic  = "heuristic_Xover"

	MutationUniform    = "uniform_mutation"
	MutationNonUniform = "non_uniform_mutation"
	MutationBoundary   = "boundary_mutation"
)

var (
	selectionOperators = []SelectionOperator{SelectionRoulette, SelectionRank, SelectionGeometric, SelectionElitism}
	crossoverNames     = []string{CrossoverSimple, CrossoverMultiple, CrossoverArithmetic, CrossoverHeuristic}
	mutationNames      = []string{MutationUniform, MutationNonUniform, MutationBoundary}
)

// Selection is the parent selection operator and its scalar option.
type Selection struct {
	Operator SelectionOperator `json:"operator" yaml:"operator"`
	Option   float64           `json:"option" yaml:"option"`
}

// GeneticOperator is one enabled crossover or mutation operator.
type GeneticOperator struct {
	Name      string `json:"name" yaml:"name"`
	Intensity int    `json:"intensity" yaml:"intensity"`
	Option    string `json:"option,omitempty" yaml:"option,omitempty"`
}

// ArrheniusVariation bounds, in percent, how far the GA may move each
// Arrhenius parameter.
type ArrheniusVariation struct {
	A  int `json:"a" yaml:"a"`
	N  int `json:"n" yaml:"n"`
	Ea int `json:"ea" yaml:"ea"`
}

// MethodBinding restricts the optimized reactions to those a reduction
// method ranks as most influential. Points is only used by a GA running
// ahead of any reduction.
type MethodBinding struct {
	Family Family `json:"family" yaml:"family"`
	Points int    `json:"points,omitempty" yaml:"points,omitempty"`
}

// OptimizationStage is a genetic-algorithm tuning step.
type OptimizationStage struct {
	Generations         int                `json:"n_gen" yaml:"n_gen"`
	Individuals         int                `json:"n_indiv" yaml:"n_indiv"`
	Fitness             Fitness            `json:"error_fitness" yaml:"error_fitness"`
	Arrhenius           ArrheniusVariation `json:"arrhenius" yaml:"arrhenius"`
	Binding             *MethodBinding     `json:"binding,omitempty" yaml:"binding,omitempty"`
	ReactionFraction    int                `json:"nb_r2opt" yaml:"nb_r2opt"`
	Selection           Selection          `json:"selection" yaml:"selection"`
	Crossovers          []GeneticOperator  `json:"crossovers" yaml:"crossovers"`
	Mutations           []GeneticOperator  `json:"mutations" yaml:"mutations"`
	MutationProbability int                `json:"mut_intensity" yaml:"mut_intensity"`
	SubMechanisms       []string           `json:"sub_mech_sel" yaml:"sub_mech_sel"`
}

// Validate checks the operator vocabulary and percentages.
func (o *OptimizationStage) Validate() error {
	var errs []error
	if o.Generations <= 0 {
		errs = append(errs, errors.New("generations must be positive"))
	}
	if o.Individuals <= 0 {
		errs = append(errs, errors.New("individuals must be positive"))
	}
	if o.Fitness != FitnessMean && o.Fitness != FitnessMax {
		errs = append(errs, fmt.Errorf("unknown fitness %q", o.Fitness))
	}
	if !slices.Contains(selectionOperators, o.Selection.Operator) {
		errs = append(errs, fmt.Errorf("unknown selection operator %q", o.Selection.Operator))
	}
	errs = append(errs, checkGeneticOperators("crossover", o.Crossovers, crossoverNames)...)
	errs = append(errs, checkGeneticOperators("mutation", o.Mutations, mutationNames)...)
	if o.MutationProbability < 0 || o.MutationProbability > 100 {
		errs = append(errs, errors.New("mutation probability must be between 0 and 100"))
	}
	return errors.Join(errs...)
}

// checkGeneticOperators allows each known operator at most once, so a
// stage never lists more operators than the vocabulary holds.
func checkGeneticOperators(kind string, ops []GeneticOperator, known []string) []error {
	var errs []error
	if len(ops) > len(known) {
		errs = append(errs, fmt.Errorf("at most %d %s operators, got %d", len(known), kind, len(ops)))
	}
	seen := make(map[string]bool, len(ops))
	for _, op := range ops {
		switch {
		case !slices.Contains(known, op.Name):
			errs = append(errs, fmt.Errorf("unknown %s %q", kind, op.Name))
		case seen[op.Name]:
			errs = append(errs, fmt.Errorf("duplicate %s %q", kind, op.Name))
		}
		seen[op.Name] = true
		if op.Intensity < 0 || op.Intensity > 100 {
			errs = append(errs, fmt.Errorf("%s %q intensity must be between 0 and 100", kind, op.Name))
		}
	}
	return errs
}

// Validate checks the reduction parameters.
func (r *ReductionStage) Validate() error {
	var errs []error
	if _, err := ParseMethod(string(r.Method)); err != nil {
		errs = append(errs, err)
	}
	if r.Points <= 0 {
		errs = append(errs, errors.New("n_points must be positive"))
	}
	if r.Optimization != nil {
		if err := r.Optimization.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("optimization: %w", err))
		}
	}
	return errors.Join(errs...)
}

// ParseSelectionOperator maps a job-file token to its selection operator.
func ParseSelectionOperator(token string) (SelectionOperator, error) {
	for _, op := range selectionOperators {
		if string(op) == token {
			return op, nil
		}
	}
	return "", fmt.Errorf("unknown selection operator %q", token)
}
