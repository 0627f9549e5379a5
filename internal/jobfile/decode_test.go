package jobfile_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brookesia/internal/job"
	"brookesia/internal/jobfile"
	"brookesia/internal/mechanism"
)

const minimalJob = `#=============================================
#           Main parameters
#=============================================
mech              = gri30.cti
tspc              = CO, CH4

#=============================================
#           Simulation cases
#=============================================

#======> Case 1
config            = reactor_UV

#=============================================
#           Operators
#=============================================

#===========> Op: DRGEP_sp
operator        = DRGEP_sp
max_error_sp    = 5
max_error_T     = 12
`

func normalized(c job.Case) job.Case {
	c.Pressure = c.Pressure.Normalize()
	for _, b := range []*job.Burner{&c.Burner1, &c.Burner2} {
		b.Temperature = b.Temperature.Normalize()
		b.Phi = b.Phi.Normalize()
		b.MassFlow = b.MassFlow.Normalize()
	}
	return c
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	want := sampleJob(t)
	data, err := jobfile.Marshal(want)
	require.NoError(t, err)

	got, err := jobfile.Unmarshal(data)
	require.NoError(t, err)

	assert.Equal(t, want.Main, got.Main)
	assert.Equal(t, want.Targets, got.Targets)
	require.Len(t, got.Cases, len(want.Cases))
	for i := range want.Cases {
		assert.Equal(t, normalized(want.Cases[i]), normalized(got.Cases[i]), "case %d", i+1)
	}
	assert.Equal(t, want.Pipeline, got.Pipeline)

	again, err := jobfile.Marshal(got)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}

func TestRoundTripCounterflowInexactSteps(t *testing.T) {
	t.Parallel()

	want := job.NewJob()
	want.Main.Mechanism = "gri30.cti"
	i := want.AddCase(job.KindPartiallyPremixedFlame)
	c := &want.Cases[i]
	c.SetMassFlow1(1, 3)
	c.SetMassFlow2(2, 5)
	c.SetPhi2(0.6, 1.2)
	c.SetPhi1(job.Range{Min: 0.1, Max: 0.7, Incr: 0.1})

	data, err := jobfile.Marshal(want)
	require.NoError(t, err)
	assert.Contains(t, string(data), "phis_1            = 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7\n")

	got, err := jobfile.Unmarshal(data)
	require.NoError(t, err)
	require.Len(t, got.Cases, 1)
	g := got.Cases[0]
	for name, pair := range map[string][2]job.Range{
		"phi 1":       {c.Burner1.Phi, g.Burner1.Phi},
		"phi 2":       {c.Burner2.Phi, g.Burner2.Phi},
		"mass flow 1": {c.Burner1.MassFlow, g.Burner1.MassFlow},
		"mass flow 2": {c.Burner2.MassFlow, g.Burner2.MassFlow},
	} {
		assert.Equal(t, pair[0].Points(), pair[1].Points(), name)
	}

	again, err := jobfile.Marshal(got)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}

func TestRoundTripMixtureAndExternalResults(t *testing.T) {
	t.Parallel()

	want := job.NewJob()
	want.Main.Mechanism = "san_diego.cti"
	want.Main.ReducedMechanism = "reduced_1.cti"
	want.Main.External = &job.ExternalResults{File: "exp.csv", ConcUnits: "mol/m3", DataType: "points"}
	i := want.AddCase(job.KindPSR)
	want.Cases[i].Burner1.Composition.Mixture = "CH4:1, O2:2"

	data, err := jobfile.Marshal(want)
	require.NoError(t, err)
	assert.Contains(t, string(data), "mixt              = CH4:1, O2:2\n")
	assert.NotContains(t, string(data), "fuel ")

	got, err := jobfile.Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, want.Main, got.Main)
	require.Len(t, got.Cases, 1)
	assert.Equal(t, "CH4:1, O2:2", got.Cases[0].Burner1.Composition.Mixture)
	assert.True(t, got.Pipeline.Empty())
}

func TestDecodeFillsDefaults(t *testing.T) {
	t.Parallel()

	got, err := jobfile.Unmarshal([]byte(minimalJob))
	require.NoError(t, err)

	assert.Equal(t, job.DefaultVerbose, got.Main.Verbose)
	assert.Equal(t, job.DefaultErrorCalculation, got.Main.ErrorCalculation)
	assert.Equal(t, []string{"CO", "CH4"}, got.Targets.Species)
	require.Len(t, got.Cases, 1)
	assert.Equal(t, job.NewCase(job.KindReactorUV), got.Cases[0])

	want := job.NewReductionStage(job.MethodDRGEPSpecies, got.Targets.Keys())
	want.Errors.Set(job.BuiltinKey(job.TargetTemperature), 12)
	// A single species value applies to every species target.
	want.Errors.Set(job.SpeciesKey("CO"), 5)
	want.Errors.Set(job.SpeciesKey("CH4"), 5)
	require.Len(t, got.Pipeline.Reductions, 1)
	assert.Equal(t, want, got.Pipeline.Reductions[0])
}

func TestDecodePadsSpeciesErrors(t *testing.T) {
	t.Parallel()

	text := strings.Replace(minimalJob, "tspc              = CO, CH4", "tspc              = CO, CH4, OH", 1)
	text = strings.Replace(text, "max_error_sp    = 5", "max_error_sp    = [5, 7]", 1)

	got, err := jobfile.Unmarshal([]byte(text))
	require.NoError(t, err)

	errs := got.Pipeline.Reductions[0].Errors
	for name, want := range map[string]float64{"CO": 5, "CH4": 7, "OH": 7} {
		v, ok := errs.Get(job.SpeciesKey(name))
		require.True(t, ok, name)
		assert.Equal(t, want, v, name)
	}
}

func TestDecodeAlternateRangeKeys(t *testing.T) {
	t.Parallel()

	text := strings.Replace(minimalJob, "config            = reactor_UV", strings.Join([]string{
		"config            = tp_flame",
		"T_min             = 300",
		"T_max             = 400",
		"T_incr            = 50",
		"phi_min           = 0.5",
		"phi_max           = 1.0",
		"phi_incr          = 0.25",
		"mdot_min          = 1",
		"mdot_max          = 3",
		"transport_model   = Mult",
	}, "\n"), 1)

	got, err := jobfile.Unmarshal([]byte(text))
	require.NoError(t, err)
	require.Len(t, got.Cases, 1)

	c := got.Cases[0]
	assert.Equal(t, job.KindPremixedCounterflow, c.Kind)
	assert.Equal(t, job.Range{Min: 300, Max: 400, Incr: 50}, c.Burner1.Temperature)
	assert.Equal(t, job.Range{Min: 0.5, Max: 1.0, Incr: 0.25}, c.Burner1.Phi)
	assert.Equal(t, job.Range{Min: 1, Max: 3, Incr: 1}, c.Burner1.MassFlow)
	assert.Equal(t, job.TransportMult, c.Flame.Transport)
}

func TestDecodeBurnerSuffixedRangeKeys(t *testing.T) {
	t.Parallel()

	text := strings.Replace(minimalJob, "config            = reactor_UV", strings.Join([]string{
		"config            = pp_flame",
		"T_min_1           = 350",
		"T_max_1           = 450",
		"T_incr_1          = 50",
		"phi_min_1         = 0.7",
		"phi_max_1         = 1.1",
		"phi_incr_1        = 0.2",
		"phi_min_2         = 2",
		"phi_max_2         = 4",
		"phi_incr_2        = 1",
		"mdot_min_1        = 4",
		"mdot_max_1        = 8",
		"mdot_incr_1       = 2",
		"mdot_2_min        = 1",
		"mdot_2_max        = 2",
		"mdot_2_incr       = 0.5",
	}, "\n"), 1)

	got, err := jobfile.Unmarshal([]byte(text))
	require.NoError(t, err)
	require.Len(t, got.Cases, 1)

	c := got.Cases[0]
	assert.Equal(t, job.KindPartiallyPremixedFlame, c.Kind)
	assert.Equal(t, job.Range{Min: 350, Max: 450, Incr: 50}, c.Burner1.Temperature)
	assert.Equal(t, job.Range{Min: 0.7, Max: 1.1, Incr: 0.2}, c.Burner1.Phi)
	// Burner 2 phi and both mass flows follow the three burner 1 phi points.
	assert.Equal(t, job.Range{Min: 2, Max: 4, Incr: 1}, c.Burner2.Phi)
	assert.Equal(t, job.Range{Min: 4, Max: 8, Incr: 2}, c.Burner1.MassFlow)
	assert.Equal(t, job.Range{Min: 1, Max: 2, Incr: 0.5}, c.Burner2.MassFlow)
}

func TestDecodeLeadingOptimization(t *testing.T) {
	t.Parallel()

	text := strings.Replace(minimalJob, "#===========> Op: DRGEP_sp", strings.Join([]string{
		"#===========> Op: GA without reduction",
		"operator        = NULL",
		"optim           = True",
		"#====> Optimization",
		"n_gen              = 5",
		"selection_operator = Rank",
		"",
		"#===========> Op: DRGEP_sp",
	}, "\n"), 1)

	sub := &mechanism.Summary{Species: []string{"CH4", "C2H6", "N2", "H2O"}}
	got, err := jobfile.Unmarshal([]byte(text), jobfile.WithMechanism(sub))
	require.NoError(t, err)

	lead := got.Pipeline.Leading
	require.NotNil(t, lead)
	assert.Equal(t, 5, lead.Generations)
	assert.Equal(t, job.SelectionRank, lead.Selection.Operator)
	assert.Nil(t, lead.Binding)
	assert.Equal(t, []string{"H2", "CO", "C1", "C2", "N"}, lead.SubMechanisms)
	require.Len(t, got.Pipeline.Reductions, 1)
	assert.Nil(t, got.Pipeline.Reductions[0].Optimization)
}

func TestDecodeResolvesMechanismByName(t *testing.T) {
	t.Parallel()

	text := strings.Replace(minimalJob, "#===========> Op: DRGEP_sp", strings.Join([]string{
		"#===========> Op: GA without reduction",
		"operator        = NULL",
		"optim           = True",
		"#====> Optimization",
		"n_gen              = 5",
		"",
		"#===========> Op: DRGEP_sp",
	}, "\n"), 1)

	var asked []string
	resolve := func(mech string) mechanism.Provider {
		asked = append(asked, mech)
		return &mechanism.Summary{Species: []string{"C3H8", "H2S"}}
	}
	got, err := jobfile.Unmarshal([]byte(text), jobfile.WithMechanismResolver(resolve))
	require.NoError(t, err)

	assert.Equal(t, []string{got.Main.Mechanism}, asked)
	assert.Equal(t, []string{"H2", "CO", "C1", "C2", "C3", "S"}, got.Pipeline.Leading.SubMechanisms)
}

func TestDecodeBoundOptimization(t *testing.T) {
	t.Parallel()

	text := minimalJob + strings.Join([]string{
		"",
		"#===========> Op: SAR_r",
		"operator        = SAR_r",
		"optim           = True",
		"ttol_sensi      = False, False",
		"#====> Optimization",
		"optim_on_meth      = False",
		"mut_operator       = uniform_mutation, boundary_mutation",
		"mut_pct            = 40",
		"sub_mech_sel       = H2",
		"",
	}, "\n")

	got, err := jobfile.Unmarshal([]byte(text))
	require.NoError(t, err)
	require.Len(t, got.Pipeline.Reductions, 2)

	sa := got.Pipeline.Reductions[1]
	assert.Equal(t, job.MethodSARReactions, sa.Method)
	assert.Nil(t, sa.SensitivityTol)
	require.NotNil(t, sa.Optimization)
	assert.Nil(t, sa.Optimization.Binding)
	assert.Equal(t, []job.GeneticOperator{
		{Name: job.MutationUniform, Intensity: 40},
		{Name: job.MutationBoundary, Intensity: 10},
	}, sa.Optimization.Mutations)
	assert.Equal(t, []string{"H2"}, sa.Optimization.SubMechanisms)
}

func TestDecodeSensitivityToleranceSwitch(t *testing.T) {
	t.Parallel()

	text := minimalJob + strings.Join([]string{
		"",
		"#===========> Op: SAR_sp",
		"operator        = SAR_sp",
		"ttol_sensi      = True",
		"",
		"#===========> Op: SARGEP_sp",
		"operator        = SARGEP_sp",
		"ttol_sensi      = 1, 1e-8",
		"",
	}, "\n")

	got, err := jobfile.Unmarshal([]byte(text))
	require.NoError(t, err)
	require.Len(t, got.Pipeline.Reductions, 3)
	assert.Equal(t, job.DefaultSensitivityTolerance(), got.Pipeline.Reductions[1].SensitivityTol)
	assert.Equal(t, &job.Tolerance{Abs: 1, Rel: 1e-8}, got.Pipeline.Reductions[2].SensitivityTol)
}

func TestDecodeMisplacedOptimization(t *testing.T) {
	t.Parallel()

	text := minimalJob + "\n#===========> Op: GA without reduction\noperator        = NULL\noptim           = True\n"

	_, err := jobfile.Unmarshal([]byte(text))
	require.ErrorIs(t, err, jobfile.ErrMisplacedOptimization)

	var perr *jobfile.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 23, perr.Line)
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		line int
		msg  string
	}{
		{
			name: "unknown config kind",
			text: strings.Replace(minimalJob, "= reactor_UV", "= bogus", 1),
			line: 12,
			msg:  "bogus",
		},
		{
			name: "operator before operators section",
			text: "mech = gri30.cti\n#===========> Op: DRG_sp\n",
			line: 2,
			msg:  "Operators section",
		},
		{
			name: "malformed number",
			text: strings.Replace(minimalJob, "config            = reactor_UV", "config            = reactor_UV\nPs                = 1e5, abc", 1),
			line: 13,
			msg:  "abc",
		},
		{
			name: "unknown operator",
			text: strings.Replace(minimalJob, "operator        = DRGEP_sp", "operator        = XYZ", 1),
			line: 18,
			msg:  "XYZ",
		},
		{
			name: "missing operator field",
			text: strings.Replace(minimalJob, "operator        = DRGEP_sp\n", "", 1),
			line: 18,
			msg:  "missing operator",
		},
		{
			name: "case after operators",
			text: minimalJob + "#======> Case 2\n",
			line: 22,
			msg:  "case block",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := jobfile.Unmarshal([]byte(tc.text))
			require.Error(t, err)
			assert.Nil(t, got)

			var perr *jobfile.ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tc.line, perr.Line)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestDecodeEmptyInput(t *testing.T) {
	t.Parallel()

	got, err := jobfile.Unmarshal(nil)
	require.NoError(t, err)
	assert.Empty(t, got.Cases)
	assert.True(t, got.Pipeline.Empty())
	assert.Equal(t, job.DefaultTargets(), got.Targets)
}
