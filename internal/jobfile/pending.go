package jobfile

import (
	"errors"
	"fmt"

	"brookesia/internal/job"
)

// rangeField collects a sweep given either as an explicit point list or as
// separate bounds. Bounds win over the list.
type rangeField struct {
	points []float64
	min    *float64
	max    *float64
	incr   *float64
}

func (f *rangeField) apply(r *job.Range) {
	if len(f.points) > 0 {
		*r = job.RangeFromPoints(f.points)
	}
	if f.min != nil {
		r.Min = *f.min
	}
	if f.max != nil {
		r.Max = *f.max
	}
	if f.incr != nil {
		r.Incr = *f.incr
	}
}

type compositionField struct {
	fuel    *string
	oxidant *string
	diluent *string
	ratio   *string
	mixture *string
}

func (f *compositionField) apply(c *job.Composition) {
	assign := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	assign(&c.Fuel, f.fuel)
	assign(&c.Oxidant, f.oxidant)
	assign(&c.Diluent, f.diluent)
	assign(&c.DiluentRatio, f.ratio)
	assign(&c.Mixture, f.mixture)
}

type burnerField struct {
	composition compositionField
	temperature rangeField
	phi         rangeField
	massFlow    rangeField
}

func (f *burnerField) apply(b *job.Burner) {
	f.composition.apply(&b.Composition)
	f.temperature.apply(&b.Temperature)
	f.phi.apply(&b.Phi)
	f.massFlow.apply(&b.MassFlow)
}

// pendingCase gathers the fields of one case block until the next marker.
type pendingCase struct {
	line       int
	configLine int

	kind     *string
	pressure rangeField
	burner1  burnerField
	burner2  burnerField

	points         *int
	deltaPoints    *int
	tMaxCoeff      *float64
	scalarRef      *string
	gradCurvRatio  *float64
	ignitionPoints *int
	ignitionDt     *float64
	residenceTime  *float64
	area           *float64
	length         *float64
	inletVelocity  *float64
	width          *float64

	timeTol   *job.Tolerance
	steadyTol *job.Tolerance
	transport *string
	scatter   []float64
	slope     *float64
	curve     *float64
	ratio     *float64
	prune     *float64
}

func (p *pendingCase) build() (job.Case, error) {
	if p.kind == nil {
		return job.Case{}, errors.New("missing config field")
	}
	kind, err := job.ParseConfigKind(*p.kind)
	if err != nil {
		return job.Case{}, err
	}
	c := job.NewCase(kind)
	p.pressure.apply(&c.Pressure)
	p.burner1.apply(&c.Burner1)
	p.burner2.apply(&c.Burner2)

	assignInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	assignFloat := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	switch {
	case kind.IsReactor():
		assignInt(&c.Reactor.Points, p.points)
	case kind == job.KindPFR:
		assignInt(&c.PFR.Points, p.points)
	}
	assignInt(&c.Reactor.DeltaPoints, p.deltaPoints)
	assignFloat(&c.Reactor.TMaxCoeff, p.tMaxCoeff)
	if p.scalarRef != nil {
		c.Reactor.ScalarRef = *p.scalarRef
	}
	assignFloat(&c.Reactor.GradCurvRatio, p.gradCurvRatio)
	assignInt(&c.Reactor.IgnitionPoints, p.ignitionPoints)
	assignFloat(&c.Reactor.IgnitionDt, p.ignitionDt)
	assignFloat(&c.PSR.ResidenceTime, p.residenceTime)
	assignFloat(&c.PFR.Area, p.area)
	assignFloat(&c.PFR.Length, p.length)
	assignFloat(&c.PFR.InletVelocity, p.inletVelocity)
	assignFloat(&c.Flame.Width, p.width)
	assignFloat(&c.Flame.Slope, p.slope)
	assignFloat(&c.Flame.Curve, p.curve)
	assignFloat(&c.Flame.Ratio, p.ratio)
	assignFloat(&c.Flame.Prune, p.prune)
	if p.scatter != nil {
		c.Flame.Scatter = p.scatter
	}
	if p.transport != nil {
		t, err := job.ParseTransport(*p.transport)
		if err != nil {
			return job.Case{}, err
		}
		c.Flame.Transport = t
	}
	if p.timeTol != nil {
		c.TimeTol = *p.timeTol
	}
	if p.steadyTol != nil {
		c.SteadyTol = *p.steadyTol
	}
	c.DeriveIncrements()
	return c, nil
}

func caseString(field func(*pendingCase) **string) fieldSetter[pendingCase] {
	return setString(field)
}

func caseFloat(field func(*pendingCase) **float64) fieldSetter[pendingCase] {
	return setFloat(field)
}

func caseInt(field func(*pendingCase) **int) fieldSetter[pendingCase] {
	return setInt(field)
}

func casePoints(field func(*pendingCase) *rangeField) fieldSetter[pendingCase] {
	return func(p *pendingCase, v string) error {
		points, err := parseFloats(v)
		if err != nil {
			return err
		}
		field(p).points = points
		return nil
	}
}

// caseBounds registers the stem_min, stem_max and stem_incr spellings of a
// sweep, each followed by suffix.
func caseBounds(table map[string]fieldSetter[pendingCase], stem, suffix string, field func(*pendingCase) *rangeField) {
	table[stem+"_min"+suffix] = setFloat(func(p *pendingCase) **float64 { return &field(p).min })
	table[stem+"_max"+suffix] = setFloat(func(p *pendingCase) **float64 { return &field(p).max })
	table[stem+"_incr"+suffix] = setFloat(func(p *pendingCase) **float64 { return &field(p).incr })
}

func caseComposition(table map[string]fieldSetter[pendingCase], suffix string, field func(*pendingCase) *compositionField) {
	table["fuel"+suffix] = caseString(func(p *pendingCase) **string { return &field(p).fuel })
	table["oxidant"+suffix] = caseString(func(p *pendingCase) **string { return &field(p).oxidant })
	table["diluent"+suffix] = caseString(func(p *pendingCase) **string { return &field(p).diluent })
	table["diluent_ratio"+suffix] = caseString(func(p *pendingCase) **string { return &field(p).ratio })
	table["mixt"+suffix] = func(p *pendingCase, v string) error {
		// Mixtures keep their commas, only quotes and brackets go.
		m := cleanValue(v)
		field(p).mixture = &m
		return nil
	}
}

func caseTolerance(field func(*pendingCase) **job.Tolerance) fieldSetter[pendingCase] {
	return func(p *pendingCase, v string) error {
		values, err := parseFloats(v)
		if err != nil {
			return err
		}
		if len(values) != 2 {
			return fmt.Errorf("want absolute and relative tolerance, got %d values", len(values))
		}
		*field(p) = &job.Tolerance{Abs: values[0], Rel: values[1]}
		return nil
	}
}

var caseFields = func() map[string]fieldSetter[pendingCase] {
	b1 := func(p *pendingCase) *burnerField { return &p.burner1 }
	b2 := func(p *pendingCase) *burnerField { return &p.burner2 }
	b1Comp := func(p *pendingCase) *compositionField { return &b1(p).composition }
	b2Comp := func(p *pendingCase) *compositionField { return &b2(p).composition }
	b1Temp := func(p *pendingCase) *rangeField { return &b1(p).temperature }
	b2Temp := func(p *pendingCase) *rangeField { return &b2(p).temperature }
	b1Phi := func(p *pendingCase) *rangeField { return &b1(p).phi }
	b2Phi := func(p *pendingCase) *rangeField { return &b2(p).phi }
	b1Flow := func(p *pendingCase) *rangeField { return &b1(p).massFlow }
	b2Flow := func(p *pendingCase) *rangeField { return &b2(p).massFlow }
	pressure := func(p *pendingCase) *rangeField { return &p.pressure }

	t := map[string]fieldSetter[pendingCase]{
		"config":          caseString(func(p *pendingCase) **string { return &p.kind }),
		"Ps":              casePoints(pressure),
		"Ts":              casePoints(b1Temp),
		"Ts_1":            casePoints(b1Temp),
		"Ts_2":            casePoints(b2Temp),
		"phis":            casePoints(b1Phi),
		"phis_1":          casePoints(b1Phi),
		"phis_2":          casePoints(b2Phi),
		"mdots":           casePoints(b1Flow),
		"mdots_1":         casePoints(b1Flow),
		"mdots_2":         casePoints(b2Flow),
		"n_pts":           caseInt(func(p *pendingCase) **int { return &p.points }),
		"delta_npts":      caseInt(func(p *pendingCase) **int { return &p.deltaPoints }),
		"t_max_coeff":     caseFloat(func(p *pendingCase) **float64 { return &p.tMaxCoeff }),
		"Scal_ref":        caseString(func(p *pendingCase) **string { return &p.scalarRef }),
		"grad_curv_ratio": caseFloat(func(p *pendingCase) **float64 { return &p.gradCurvRatio }),
		"tign_nPoints":    caseInt(func(p *pendingCase) **int { return &p.ignitionPoints }),
		"tign_dt":         caseFloat(func(p *pendingCase) **float64 { return &p.ignitionDt }),
		"t_max":           caseFloat(func(p *pendingCase) **float64 { return &p.residenceTime }),
		"area":            caseFloat(func(p *pendingCase) **float64 { return &p.area }),
		"length":          caseFloat(func(p *pendingCase) **float64 { return &p.length }),
		"u_0":             caseFloat(func(p *pendingCase) **float64 { return &p.inletVelocity }),
		"xmax":            caseFloat(func(p *pendingCase) **float64 { return &p.width }),
		"width":           caseFloat(func(p *pendingCase) **float64 { return &p.width }),
		"tol_ts":          caseTolerance(func(p *pendingCase) **job.Tolerance { return &p.timeTol }),
		"tol_ss":          caseTolerance(func(p *pendingCase) **job.Tolerance { return &p.steadyTol }),
		"transport_model": caseString(func(p *pendingCase) **string { return &p.transport }),
		"pts_scatter":     setFloats(func(p *pendingCase) *[]float64 { return &p.scatter }),
		"slope":           caseFloat(func(p *pendingCase) **float64 { return &p.slope }),
		"curve":           caseFloat(func(p *pendingCase) **float64 { return &p.curve }),
		"ratio":           caseFloat(func(p *pendingCase) **float64 { return &p.ratio }),
		"prune":           caseFloat(func(p *pendingCase) **float64 { return &p.prune }),
	}
	caseComposition(t, "", b1Comp)
	caseComposition(t, "_1", b1Comp)
	caseComposition(t, "_2", b2Comp)
	caseBounds(t, "P", "", pressure)
	for _, suffix := range []string{"", "_1"} {
		caseBounds(t, "T", suffix, b1Temp)
		caseBounds(t, "phi", suffix, b1Phi)
		caseBounds(t, "mdot", suffix, b1Flow)
	}
	caseBounds(t, "phi", "_2", b2Phi)
	caseBounds(t, "mdot_2", "", b2Flow)
	return t
}()

// pendingOp gathers one operator block, including a trailing GA block.
type pendingOp struct {
	line int

	operator     *string
	epsilon      *float64
	deltaEpsilon *float64
	points       *int
	speciesError []float64
	builtinError map[job.TargetKind]float64
	interSpecies *bool
	optim        *bool
	sensiSet     bool
	sensi        *job.Tolerance

	ga pendingGA
}

func (p *pendingOp) build(method job.Method, targets job.Targets) (job.ReductionStage, error) {
	r := job.NewReductionStage(method, targets.Keys())
	if p.epsilon != nil {
		r.Epsilon = *p.epsilon
	}
	if p.deltaEpsilon != nil {
		r.DeltaEpsilon = *p.deltaEpsilon
	}
	if p.points != nil {
		r.Points = *p.points
	}
	if p.interSpecies != nil {
		r.InterSpecies = *p.interSpecies
	}
	// A short species list repeats its last value for the remaining species.
	if n := len(p.speciesError); n > 0 {
		for i, name := range targets.Species {
			v := p.speciesError[min(i, n-1)]
			r.Errors.Set(job.SpeciesKey(name), v)
		}
	}
	for kind, v := range p.builtinError {
		if targets.Builtin(kind).Enabled {
			r.Errors.Set(job.BuiltinKey(kind), v)
		}
	}
	if p.sensiSet {
		r.SensitivityTol = p.sensi
	}
	return r, nil
}

func opBuiltinError(kind job.TargetKind) fieldSetter[pendingOp] {
	return func(p *pendingOp, v string) error {
		f, err := parseFloat(v)
		if err != nil {
			return err
		}
		if p.builtinError == nil {
			p.builtinError = make(map[job.TargetKind]float64)
		}
		p.builtinError[kind] = f
		return nil
	}
}

var opFields = map[string]fieldSetter[pendingOp]{
	"operator":       setString(func(p *pendingOp) **string { return &p.operator }),
	"eps":            setFloat(func(p *pendingOp) **float64 { return &p.epsilon }),
	"delta_eps":      setFloat(func(p *pendingOp) **float64 { return &p.deltaEpsilon }),
	"n_points":       setInt(func(p *pendingOp) **int { return &p.points }),
	"max_error_sp":   setFloats(func(p *pendingOp) *[]float64 { return &p.speciesError }),
	"max_error_T":    opBuiltinError(job.TargetTemperature),
	"max_error_ig":   opBuiltinError(job.TargetIgnitionDelay),
	"max_error_Sl":   opBuiltinError(job.TargetFlameSpeed),
	"max_error_K":    opBuiltinError(job.TargetStrainRate),
	"inter_sp_inter": setBool(func(p *pendingOp) **bool { return &p.interSpecies }),
	"optim":          setBool(func(p *pendingOp) **bool { return &p.optim }),
	"ttol_sensi": func(p *pendingOp, v string) error {
		p.sensiSet = true
		p.sensi = nil
		items := parseList(v)
		if len(items) == 0 {
			return nil
		}
		switch items[0] {
		case "False", "false":
			return nil
		case "True", "true":
			p.sensi = job.DefaultSensitivityTolerance()
			return nil
		}
		values, err := parseFloats(v)
		if err != nil {
			return err
		}
		if len(values) != 2 {
			return fmt.Errorf("want absolute and relative tolerance, got %d values", len(values))
		}
		p.sensi = &job.Tolerance{Abs: values[0], Rel: values[1]}
		return nil
	},
}

// pendingGA gathers the fields following an optimization marker.
type pendingGA struct {
	generations      *int
	individuals      *int
	fitness          *string
	arrhenius        []int
	onMethod         *string
	onMethodPoints   *int
	reactionFraction *int
	selection        *string
	selectionOption  *float64
	crossovers       geneticField
	mutations        geneticField
	mutationProb     *int
	subMechanisms    []string
}

type geneticField struct {
	names   []string
	pcts    []int
	options []string
}

// apply rebuilds ops from the listed names. Operators keep their default
// intensity when the percentage list is short.
func (f *geneticField) apply(ops []job.GeneticOperator) []job.GeneticOperator {
	if f.names == nil {
		out := append([]job.GeneticOperator(nil), ops...)
		for i := range out {
			if i < len(f.pcts) {
				out[i].Intensity = f.pcts[i]
			}
			if i < len(f.options) {
				out[i].Option = f.options[i]
			}
		}
		return out
	}
	out := make([]job.GeneticOperator, 0, len(f.names))
	for i, name := range f.names {
		if name == "" {
			continue
		}
		op := job.GeneticOperator{Name: name}
		for _, def := range ops {
			if def.Name == name {
				op.Intensity = def.Intensity
			}
		}
		if i < len(f.pcts) {
			op.Intensity = f.pcts[i]
		}
		if i < len(f.options) {
			op.Option = f.options[i]
		}
		out = append(out, op)
	}
	return out
}

// build resolves the GA block. method is the reduction the block follows,
// or nil for a GA leading the pipeline.
func (p *pendingGA) build(subMechanisms []string, method *job.Method) (job.OptimizationStage, error) {
	o := job.NewOptimizationStage(subMechanisms)
	if p.generations != nil {
		o.Generations = *p.generations
	}
	if p.individuals != nil {
		o.Individuals = *p.individuals
	}
	if p.fitness != nil {
		f := job.Fitness(*p.fitness)
		if f != job.FitnessMean && f != job.FitnessMax {
			return o, fmt.Errorf("unknown fitness %q", *p.fitness)
		}
		o.Fitness = f
	}
	for i, v := range p.arrhenius {
		switch i {
		case 0:
			o.Arrhenius.A = v
		case 1:
			o.Arrhenius.N = v
		case 2:
			o.Arrhenius.Ea = v
		}
	}
	binding, err := p.binding(o.Binding, method)
	if err != nil {
		return o, err
	}
	o.Binding = binding
	if p.reactionFraction != nil {
		o.ReactionFraction = *p.reactionFraction
	}
	if p.selection != nil {
		op, err := job.ParseSelectionOperator(*p.selection)
		if err != nil {
			return o, err
		}
		o.Selection.Operator = op
	}
	if p.selectionOption != nil {
		o.Selection.Option = *p.selectionOption
	}
	o.Crossovers = p.crossovers.apply(o.Crossovers)
	o.Mutations = p.mutations.apply(o.Mutations)
	if p.mutationProb != nil {
		o.MutationProbability = *p.mutationProb
	}
	if p.subMechanisms != nil {
		o.SubMechanisms = nonEmpty(p.subMechanisms)
	}
	return o, nil
}

func (p *pendingGA) binding(def *job.MethodBinding, method *job.Method) (*job.MethodBinding, error) {
	if method != nil {
		if p.onMethod == nil {
			return &job.MethodBinding{Family: method.Family()}, nil
		}
		on, err := parseBool(*p.onMethod)
		if err != nil || !on {
			return nil, err
		}
		return &job.MethodBinding{Family: method.Family()}, nil
	}

	if p.onMethod == nil {
		return nil, nil
	}
	if on, err := parseBool(*p.onMethod); err == nil && !on {
		return nil, nil
	}
	family, err := job.ParseFamily(*p.onMethod)
	if err != nil {
		return nil, err
	}
	b := &job.MethodBinding{Family: family, Points: def.Points}
	if p.onMethodPoints != nil {
		b.Points = *p.onMethodPoints
	}
	return b, nil
}

func gaInts(field func(*pendingGA) *[]int) fieldSetter[pendingGA] {
	return func(p *pendingGA, v string) error {
		values, err := parseInts(v)
		if err != nil {
			return err
		}
		*field(p) = values
		return nil
	}
}

var gaFields = map[string]fieldSetter[pendingGA]{
	"n_gen":              setInt(func(p *pendingGA) **int { return &p.generations }),
	"n_indiv":            setInt(func(p *pendingGA) **int { return &p.individuals }),
	"error_fitness":      setString(func(p *pendingGA) **string { return &p.fitness }),
	"Arrh_max_variation": gaInts(func(p *pendingGA) *[]int { return &p.arrhenius }),
	"optim_on_meth":      setString(func(p *pendingGA) **string { return &p.onMethod }),
	"optim_on_meth_pts":  setInt(func(p *pendingGA) **int { return &p.onMethodPoints }),
	"nb_r2opt":           setInt(func(p *pendingGA) **int { return &p.reactionFraction }),
	"selection_operator": setString(func(p *pendingGA) **string { return &p.selection }),
	"selection_options":  setFloat(func(p *pendingGA) **float64 { return &p.selectionOption }),
	"Xover_operator":     setStrings(func(p *pendingGA) *[]string { return &p.crossovers.names }),
	"Xover_pct":          gaInts(func(p *pendingGA) *[]int { return &p.crossovers.pcts }),
	"Xover_opt":          setStrings(func(p *pendingGA) *[]string { return &p.crossovers.options }),
	"mut_operator":       setStrings(func(p *pendingGA) *[]string { return &p.mutations.names }),
	"mut_pct":            gaInts(func(p *pendingGA) *[]int { return &p.mutations.pcts }),
	"mut_opt":            setStrings(func(p *pendingGA) *[]string { return &p.mutations.options }),
	"mut_intensity":      setInt(func(p *pendingGA) **int { return &p.mutationProb }),
	"sub_mech_sel":       setStrings(func(p *pendingGA) *[]string { return &p.subMechanisms }),
}
