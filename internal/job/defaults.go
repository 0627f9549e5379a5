package job

// Shared defaults. The parser falls back on the same constructors, so a
// field missing from a job file reads back as a freshly created one.
const (
	DefaultVerbose          = 4
	DefaultShowPlots        = true
	DefaultErrorCalculation = ErrorCalculationPoints
	DefaultErrorCoupling    = ErrorCouplingMean
	DefaultTargetError      = 30.0

	defaultTemperatureSpecies = "CO2"
	defaultFlameSpeedSpecies  = "H"
	defaultIgnitionSpecies    = "CH3"
	defaultStrainRateSpecies  = "H"

	defaultFuel         = "CH4"
	defaultOxidant      = "O2"
	defaultDiluent      = "N2"
	defaultDiluentRatio = "N2/O2 3.76"
	defaultPressure     = 1e5
	defaultPhiMin       = 0.5
	defaultPhiMax       = 1.5
	defaultPhiIncr      = 0.5

	defaultReactorTMin           = 1400
	defaultReactorTMax           = 1800
	defaultReactorTIncr          = 200
	defaultReactorTolAbs         = 1e-12
	defaultReactorTolRel         = 1e-6
	defaultReactorPoints         = 250
	defaultReactorDeltaPoints    = 20
	defaultReactorTMaxCoeff      = 5
	defaultReactorScalarRef      = "H2O"
	defaultReactorGradCurvRatio  = 0.5
	defaultReactorIgnitionPoints = 130
	defaultReactorIgnitionDt     = 1e-9

	defaultPSRTMin          = 600
	defaultPSRTMax          = 1200
	defaultPSRTIncr         = 10
	defaultPSRTolAbs        = 1e-15
	defaultPSRTolRel        = 1e-8
	defaultPSRResidenceTime = 0.2
	defaultPSRDiluentRatio  = "0.99"

	defaultPFRTMin          = 1600
	defaultPFRTMax          = 1600
	defaultPFRTIncr         = 200
	defaultPFRTolAbs        = 1e-15
	defaultPFRTolRel        = 1e-8
	defaultPFRPoints        = 2000
	defaultPFRArea          = 1e-4
	defaultPFRLength        = 1.5e-5
	defaultPFRInletVelocity = 0.006

	defaultFlameTMin      = 300
	defaultFlameTMax      = 300
	defaultFlameTIncr     = 100
	defaultFlameTolTSAbs  = 1e-8
	defaultFlameTolTSRel  = 1e-5
	defaultFlameTolSSAbs  = 1e-8
	defaultFlameTolSSRel  = 1e-6
	defaultFlameRatio     = 2.0
	defaultFlameSlope     = 0.05
	defaultFlameCurve     = 0.05
	defaultFlamePrune     = 0.01
	defaultFlameWidth     = 0.02
	defaultFlameTransport = TransportMix

	defaultBurnerTemperature = 300
	defaultMassFlowMin       = 1
	defaultMassFlowMax       = 3
	defaultMassFlowIncr      = 1
	defaultDiffDiluentRatio1 = "0"
	defaultDiffDiluentRatio2 = "79"

	defaultEpsilon      = 0.01
	defaultDeltaEpsilon = 0.01
	defaultSamplePoints = 10
	defaultInterSpecies = true
	defaultSensiTolAbs  = 1e-5
	defaultSensiTolRel  = 1e-8

	defaultGenerations         = 20
	defaultIndividuals         = 20
	defaultArrheniusA          = 5
	defaultArrheniusN          = 5
	defaultArrheniusEa         = 5
	defaultOnMethodPoints      = 20
	defaultReactionFraction    = 30
	defaultSelection           = SelectionRoulette
	defaultSelectionOption     = 0.2
	defaultMutationProbability = 30
	defaultFitness             = FitnessMean
)

var (
	defaultFlameScatter       = []float64{0.0, 0.03, 0.3, 0.5, 0.7, 1.0}
	defaultCounterflowScatter = []float64{0.0, 0.2, 0.4, 0.6, 0.8, 1.0}
)

// NewJob returns an empty job carrying the default main parameters and
// targets.
func NewJob() *Job {
	return &Job{
		Main: MainParams{
			Verbose:          DefaultVerbose,
			ShowPlots:        DefaultShowPlots,
			ErrorCalculation: DefaultErrorCalculation,
			ErrorCoupling:    DefaultErrorCoupling,
		},
		Targets: DefaultTargets(),
	}
}

// DefaultTargets enables temperature, flame speed and ignition delay.
func DefaultTargets() Targets {
	return Targets{
		Temperature:   BuiltinTarget{Enabled: true, Species: []string{defaultTemperatureSpecies}},
		FlameSpeed:    BuiltinTarget{Enabled: true, Species: []string{defaultFlameSpeedSpecies}},
		IgnitionDelay: BuiltinTarget{Enabled: true, Species: []string{defaultIgnitionSpecies}},
		StrainRate:    BuiltinTarget{Enabled: false, Species: []string{defaultStrainRateSpecies}},
	}
}

// NewCase returns an active case of the given kind with every field at its
// default.
func NewCase(kind ConfigKind) Case {
	c := Case{
		Kind:     kind,
		Active:   true,
		Pressure: Single(defaultPressure),
		Burner1: Burner{
			Composition: Composition{
				Fuel:         defaultFuel,
				Oxidant:      defaultOxidant,
				Diluent:      defaultDiluent,
				DiluentRatio: defaultDiluentRatio,
			},
			Phi: Range{Min: defaultPhiMin, Max: defaultPhiMax, Incr: defaultPhiIncr},
		},
		Reactor: ReactorOptions{
			Points:         defaultReactorPoints,
			DeltaPoints:    defaultReactorDeltaPoints,
			TMaxCoeff:      defaultReactorTMaxCoeff,
			ScalarRef:      defaultReactorScalarRef,
			GradCurvRatio:  defaultReactorGradCurvRatio,
			IgnitionPoints: defaultReactorIgnitionPoints,
			IgnitionDt:     defaultReactorIgnitionDt,
		},
		PSR: PSROptions{ResidenceTime: defaultPSRResidenceTime},
		PFR: PFROptions{
			Points:        defaultPFRPoints,
			Area:          defaultPFRArea,
			Length:        defaultPFRLength,
			InletVelocity: defaultPFRInletVelocity,
		},
		Flame: FlameOptions{
			Slope:     defaultFlameSlope,
			Curve:     defaultFlameCurve,
			Ratio:     defaultFlameRatio,
			Prune:     defaultFlamePrune,
			Scatter:   append([]float64(nil), defaultFlameScatter...),
			Width:     defaultFlameWidth,
			Transport: defaultFlameTransport,
		},
		TimeTol:   Tolerance{Abs: defaultFlameTolTSAbs, Rel: defaultFlameTolTSRel},
		SteadyTol: Tolerance{Abs: defaultFlameTolSSAbs, Rel: defaultFlameTolSSRel},
	}

	switch {
	case kind.IsReactor():
		c.Burner1.Temperature = Range{Min: defaultReactorTMin, Max: defaultReactorTMax, Incr: defaultReactorTIncr}
		c.TimeTol = Tolerance{Abs: defaultReactorTolAbs, Rel: defaultReactorTolRel}
	case kind == KindPSR:
		c.Burner1.Temperature = Range{Min: defaultPSRTMin, Max: defaultPSRTMax, Incr: defaultPSRTIncr}
		c.Burner1.Composition.DiluentRatio = defaultPSRDiluentRatio
		c.TimeTol = Tolerance{Abs: defaultPSRTolAbs, Rel: defaultPSRTolRel}
	case kind == KindPFR:
		c.Burner1.Temperature = Range{Min: defaultPFRTMin, Max: defaultPFRTMax, Incr: defaultPFRTIncr}
		c.TimeTol = Tolerance{Abs: defaultPFRTolAbs, Rel: defaultPFRTolRel}
	case kind == KindFreeFlame:
		c.Burner1.Temperature = Range{Min: defaultFlameTMin, Max: defaultFlameTMax, Incr: defaultFlameTIncr}
	case kind.IsCounterflow():
		applyCounterflowDefaults(&c)
	}
	return c
}

func applyCounterflowDefaults(c *Case) {
	massFlow := Range{Min: defaultMassFlowMin, Max: defaultMassFlowMax, Incr: defaultMassFlowIncr}
	c.Burner1.Temperature = Single(defaultBurnerTemperature)
	c.Burner1.MassFlow = massFlow
	c.Flame.Scatter = append([]float64(nil), defaultCounterflowScatter...)
	if !c.Kind.HasTwoBurners() {
		c.DeriveIncrements()
		return
	}
	c.Burner2 = Burner{
		Composition: Composition{
			Oxidant:      defaultOxidant,
			Diluent:      defaultDiluent,
			DiluentRatio: defaultDiluentRatio,
		},
		Temperature: Single(defaultBurnerTemperature),
		Phi:         Range{Min: defaultPhiMin, Max: defaultPhiMax, Incr: defaultPhiIncr},
		MassFlow:    massFlow,
	}
	if c.Kind == KindDiffusionFlame {
		c.Burner1.Composition.Oxidant = ""
		c.Burner1.Composition.DiluentRatio = defaultDiffDiluentRatio1
		c.Burner2.Composition.DiluentRatio = defaultDiffDiluentRatio2
		c.Burner2.Phi = Range{}
		return
	}
	c.Burner2.Composition.Fuel = defaultFuel
	c.DeriveIncrements()
}

// NewReductionStage returns a reduction with a threshold row per target.
func NewReductionStage(method Method, keys []TargetKey) ReductionStage {
	return ReductionStage{
		Method:       method,
		Epsilon:      defaultEpsilon,
		DeltaEpsilon: defaultDeltaEpsilon,
		Points:       defaultSamplePoints,
		Errors:       NewErrorThresholds(keys),
		InterSpecies: defaultInterSpecies,
	}
}

// DefaultSensitivityTolerance is the SA tolerance pair used once the
// tolerance is switched on.
func DefaultSensitivityTolerance() *Tolerance {
	return &Tolerance{Abs: defaultSensiTolAbs, Rel: defaultSensiTolRel}
}

// EnableSensitivityTol switches on the SA tolerance with default values.
// It is a no-op for DRG methods and for stages that already carry one.
func (r *ReductionStage) EnableSensitivityTol() {
	if r.Method.Family() != FamilySA || r.SensitivityTol != nil {
		return
	}
	r.SensitivityTol = DefaultSensitivityTolerance()
}

// NewOptimizationStage returns a GA stage restricted to the given
// sub-mechanisms, typically from mechanism.DefaultSubMechanisms.
func NewOptimizationStage(subMechanisms []string) OptimizationStage {
	return OptimizationStage{
		Generations:      defaultGenerations,
		Individuals:      defaultIndividuals,
		Fitness:          defaultFitness,
		Arrhenius:        ArrheniusVariation{A: defaultArrheniusA, N: defaultArrheniusN, Ea: defaultArrheniusEa},
		Binding:          &MethodBinding{Family: FamilyDRG, Points: defaultOnMethodPoints},
		ReactionFraction: defaultReactionFraction,
		Selection:        Selection{Operator: defaultSelection, Option: defaultSelectionOption},
		Crossovers: []GeneticOperator{
			{Name: CrossoverSimple, Intensity: 10},
			{Name: CrossoverMultiple, Intensity: 20},
			{Name: CrossoverArithmetic, Intensity: 20},
			{Name: CrossoverHeuristic, Intensity: 20},
		},
		Mutations: []GeneticOperator{
			{Name: MutationUniform, Intensity: 30},
			{Name: MutationNonUniform, Intensity: 30, Option: "3"},
			{Name: MutationBoundary, Intensity: 10},
		},
		MutationProbability: defaultMutationProbability,
		SubMechanisms:       append([]string(nil), subMechanisms...),
	}
}
