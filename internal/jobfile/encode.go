package jobfile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"

	"brookesia/internal/job"
)

// Marshal renders j as a job file.
func Marshal(j *job.Job) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, j); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode writes j to w. It fails without writing anything when j does not
// validate.
func Encode(w io.Writer, j *job.Job) error {
	if j == nil {
		return fmt.Errorf("encode job: nil job")
	}
	if err := j.Validate(); err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	bw := bufio.NewWriter(w)
	e := &encoder{w: bw, job: j}
	e.main()
	e.cases()
	e.operators()
	return bw.Flush()
}

type encoder struct {
	w   *bufio.Writer
	job *job.Job
}

func (e *encoder) line(s string) {
	e.w.WriteString(s)
	e.w.WriteByte('\n')
}

func (e *encoder) field(width int, key, value string) {
	fmt.Fprintf(e.w, "%-*s= %s\n", width, key, value)
}

func (e *encoder) mainField(key, value string) { e.field(mainKeyWidth, key, value) }

func (e *encoder) opField(key, value string) { e.field(opKeyWidth, key, value) }

func (e *encoder) gaField(key, value string) { e.field(optimKeyWidth, key, value) }

func (e *encoder) header(title string) {
	e.line(sectionRule)
	e.line("#           " + title)
	e.line(sectionRule)
}

func (e *encoder) main() {
	m := e.job.Main
	t := e.job.Targets
	e.header("Main parameters")
	e.mainField("main_path", m.WorkDir)
	e.mainField("mech", m.Mechanism)
	if m.ReducedMechanism != "" {
		e.mainField("mech_prev_red", m.ReducedMechanism)
	}
	if m.External != nil {
		e.mainField("ext_results_file", m.External.File)
		e.mainField("conc_units", m.External.ConcUnits)
		e.mainField("ext_data_type", m.External.DataType)
	}
	e.mainField("verbose", strconv.Itoa(m.Verbose))
	e.mainField("show_plots", formatBool(m.ShowPlots))
	e.mainField("tspc", formatList(t.Species))
	e.mainField("T_check", formatBool(t.Temperature.Enabled))
	e.mainField("sp_T", formatList(t.Temperature.Species))
	e.mainField("Sl_check", formatBool(t.FlameSpeed.Enabled))
	e.mainField("sp_Sl", formatList(t.FlameSpeed.Species))
	e.mainField("ig_check", formatBool(t.IgnitionDelay.Enabled))
	e.mainField("sp_ig", formatList(t.IgnitionDelay.Species))
	e.mainField("K_check", formatBool(t.StrainRate.Enabled))
	e.mainField("sp_K", formatList(t.StrainRate.Species))
	e.mainField("error_calculation", string(m.ErrorCalculation))
	e.mainField("error_coupling", string(m.ErrorCoupling))
}

func (e *encoder) cases() {
	e.line("")
	e.line("")
	e.header("Simulation cases")
	n := 0
	for i := range e.job.Cases {
		c := &e.job.Cases[i]
		if !c.Active {
			continue
		}
		n++
		e.line("")
		e.line(caseMarker + strconv.Itoa(n))
		e.caseFields(c)
	}
}

func (e *encoder) composition(c job.Composition, suffix string, withFuel, withOxidant bool) {
	if c.IsMixture() {
		key := "mixt"
		if suffix == "_2" {
			key = "mixt_2"
		}
		e.mainField(key, c.Mixture)
		return
	}
	if withFuel {
		e.mainField("fuel"+suffix, c.Fuel)
	}
	if withOxidant {
		e.mainField("oxidant"+suffix, c.Oxidant)
	}
	e.mainField("diluent"+suffix, c.Diluent)
	e.mainField("diluent_ratio"+suffix, c.DiluentRatio)
}

func (e *encoder) caseFields(c *job.Case) {
	kind := c.Kind
	b1, b2 := c.Burner1, c.Burner2

	e.mainField("config", string(kind))
	e.mainField("Ps", formatFloats(c.Pressure.Points()))
	if kind.IsPremixed() {
		e.composition(b1.Composition, "", true, true)
		e.mainField("Ts", formatFloats(b1.Temperature.Points()))
		e.mainField("phis", formatFloats(b1.Phi.Points()))
	} else {
		e.composition(b1.Composition, "_1", true, kind != job.KindDiffusionFlame)
		e.mainField("Ts_1", formatFloats(b1.Temperature.Points()))
		e.mainField("phis_1", formatFloats(b1.Phi.Points()))
		e.mainField("mdots_1", formatFloats(b1.MassFlow.Points()))
	}

	switch {
	case kind.IsReactor():
		r := c.Reactor
		e.mainField("n_pts", strconv.Itoa(r.Points))
		e.mainField("delta_npts", strconv.Itoa(r.DeltaPoints))
		e.mainField("t_max_coeff", formatFloat(r.TMaxCoeff))
		e.mainField("Scal_ref", r.ScalarRef)
		e.mainField("grad_curv_ratio", formatFloat(r.GradCurvRatio))
		e.mainField("tign_nPoints", strconv.Itoa(r.IgnitionPoints))
		e.mainField("tign_dt", formatFloat(r.IgnitionDt))
	case kind == job.KindPSR:
		e.mainField("t_max", formatFloat(c.PSR.ResidenceTime))
	case kind == job.KindPFR:
		p := c.PFR
		e.mainField("n_pts", strconv.Itoa(p.Points))
		e.mainField("area", formatFloat(p.Area))
		e.mainField("length", formatFloat(p.Length))
		e.mainField("u_0", formatFloat(p.InletVelocity))
	case kind == job.KindFreeFlame:
		e.mainField("xmax", formatFloat(c.Flame.Width))
	case kind.HasTwoBurners():
		e.composition(b2.Composition, "_2", kind == job.KindPartiallyPremixedFlame, true)
		e.mainField("Ts_2", formatFloats(b2.Temperature.Points()))
		if kind == job.KindPartiallyPremixedFlame {
			e.mainField("phis_2", formatFloats(b2.Phi.Points()))
		}
		e.mainField("mdots_2", formatFloats(b2.MassFlow.Points()))
		e.mainField("width", formatFloat(c.Flame.Width))
	case kind == job.KindPremixedCounterflow:
		e.mainField("mdots", formatFloats(b1.MassFlow.Points()))
		e.mainField("width", formatFloat(c.Flame.Width))
	}

	e.mainField("tol_ts", formatFloats([]float64{c.TimeTol.Abs, c.TimeTol.Rel}))
	if kind.IsFlame() {
		f := c.Flame
		e.mainField("tol_ss", formatFloats([]float64{c.SteadyTol.Abs, c.SteadyTol.Rel}))
		e.mainField("transport_model", string(f.Transport))
		e.mainField("pts_scatter", formatFloats(f.Scatter))
		e.mainField("slope", formatFloat(f.Slope))
		e.mainField("curve", formatFloat(f.Curve))
		e.mainField("ratio", formatFloat(f.Ratio))
		e.mainField("prune", formatFloat(f.Prune))
	}
}

func (e *encoder) operators() {
	p := &e.job.Pipeline
	e.line("")
	e.line("")
	e.line("")
	e.header("Operators")
	e.line("")

	if p.Empty() {
		e.line(opMarker + noReduction)
		e.opField("operator", nullOperator)
		return
	}
	if p.Leading != nil {
		e.line(opMarker + leadingGAName)
		e.opField("operator", nullOperator)
		e.opField("optim", formatBool(true))
		e.optimization(p.Leading, true)
	}
	keys := e.job.Targets.Keys()
	for i := range p.Reductions {
		e.reduction(&p.Reductions[i], keys)
	}
}

func (e *encoder) reduction(r *job.ReductionStage, keys []job.TargetKey) {
	errs := r.Errors.Rekey(keys)
	species := errs.Species()
	spValues := make([]float64, len(species))
	for i, t := range species {
		spValues[i] = t.Percent
	}

	e.line("")
	e.line(opMarker + string(r.Method))
	e.opField("operator", string(r.Method))
	e.opField("eps", formatFloat(r.Epsilon))
	e.opField("delta_eps", formatFloat(r.DeltaEpsilon))
	e.opField("n_points", strconv.Itoa(r.Points))
	e.opField("max_error_sp", formatFloats(spValues))
	for _, b := range []struct {
		kind job.TargetKind
		key  string
	}{
		{job.TargetTemperature, "max_error_T"},
		{job.TargetIgnitionDelay, "max_error_ig"},
		{job.TargetFlameSpeed, "max_error_Sl"},
		{job.TargetStrainRate, "max_error_K"},
	} {
		if v, ok := errs.Get(job.BuiltinKey(b.kind)); ok {
			e.opField(b.key, formatFloat(v))
		}
	}
	e.opField("inter_sp_inter", formatBool(r.InterSpecies))
	e.opField("optim", formatBool(r.Optimization != nil))
	if r.Method.Family() != job.FamilyDRG {
		tol := "False, False"
		if r.SensitivityTol != nil {
			tol = formatFloats([]float64{r.SensitivityTol.Abs, r.SensitivityTol.Rel})
		}
		e.opField("ttol_sensi", tol)
	}
	if r.Optimization != nil {
		e.optimization(r.Optimization, false)
	}
}

func (e *encoder) optimization(o *job.OptimizationStage, leading bool) {
	e.line(optimMarker)
	e.gaField("n_gen", strconv.Itoa(o.Generations))
	e.gaField("n_indiv", strconv.Itoa(o.Individuals))
	e.gaField("error_fitness", string(o.Fitness))
	e.gaField("Arrh_max_variation", formatInts([]int{o.Arrhenius.A, o.Arrhenius.N, o.Arrhenius.Ea}))
	switch {
	case leading && o.Binding != nil:
		e.gaField("optim_on_meth", string(o.Binding.Family))
		e.gaField("optim_on_meth_pts", strconv.Itoa(o.Binding.Points))
	case !leading:
		e.gaField("optim_on_meth", formatBool(o.Binding != nil))
	}
	e.gaField("nb_r2opt", strconv.Itoa(o.ReactionFraction))
	e.gaField("selection_operator", string(o.Selection.Operator))
	e.gaField("selection_options", formatFloat(o.Selection.Option))
	e.geneticOperators("Xover", o.Crossovers)
	e.geneticOperators("mut", o.Mutations)
	e.gaField("mut_intensity", strconv.Itoa(o.MutationProbability))
	e.gaField("sub_mech_sel", formatList(o.SubMechanisms))
	e.line("")
}

func (e *encoder) geneticOperators(prefix string, ops []job.GeneticOperator) {
	names := make([]string, len(ops))
	pcts := make([]int, len(ops))
	opts := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.Name
		pcts[i] = op.Intensity
		opts[i] = op.Option
	}
	e.gaField(prefix+"_operator", formatList(names))
	e.gaField(prefix+"_pct", formatInts(pcts))
	e.gaField(prefix+"_opt", formatList(opts))
}
