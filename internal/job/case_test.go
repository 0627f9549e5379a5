package job_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brookesia/internal/job"
)

func TestNewCaseDefaultsPerKind(t *testing.T) {
	t.Parallel()

	reactor := job.NewCase(job.KindReactorUV)
	assert.True(t, reactor.Active)
	assert.Equal(t, []float64{1400, 1600, 1800}, reactor.Burner1.Temperature.Points())
	assert.Equal(t, job.Tolerance{Abs: 1e-12, Rel: 1e-6}, reactor.TimeTol)
	assert.Equal(t, "H2O", reactor.Reactor.ScalarRef)

	psr := job.NewCase(job.KindPSR)
	assert.Equal(t, "0.99", psr.Burner1.Composition.DiluentRatio)
	assert.Equal(t, 0.2, psr.PSR.ResidenceTime)

	flame := job.NewCase(job.KindFreeFlame)
	assert.Equal(t, []float64{300}, flame.Burner1.Temperature.Points())
	assert.Equal(t, job.TransportMix, flame.Flame.Transport)
	assert.Equal(t, 0.02, flame.Flame.Width)

	diff := job.NewCase(job.KindDiffusionFlame)
	assert.Empty(t, diff.Burner1.Composition.Oxidant)
	assert.Equal(t, "79", diff.Burner2.Composition.DiluentRatio)
	assert.Equal(t, []float64{1, 2, 3}, diff.Burner1.MassFlow.Points())

	for _, kind := range job.ConfigKinds {
		c := job.NewCase(kind)
		require.NoError(t, c.Validate(), kind)
	}
}

func TestDeriveIncrementsFollowsBurnerOnePhiSteps(t *testing.T) {
	t.Parallel()

	c := job.NewCase(job.KindPartiallyPremixedFlame)
	c.SetMassFlow1(1, 3)
	c.SetPhi2(0.5, 1.5)
	c.SetPhi1(job.Range{Min: 0.5, Max: 1.5, Incr: 0.5})

	// Two phi steps on burner 1.
	assert.InDelta(t, 0.5, c.Burner2.Phi.Incr, 1e-12)
	assert.InDelta(t, 1.0, c.Burner1.MassFlow.Incr, 1e-12)
	assert.InDelta(t, 1.0, c.Burner2.MassFlow.Incr, 1e-12)

	// Every sweep ends up with the same number of points.
	assert.Len(t, c.Burner1.Phi.Points(), 3)
	assert.Len(t, c.Burner2.Phi.Points(), 3)
	assert.Len(t, c.Burner1.MassFlow.Points(), 3)
	assert.Len(t, c.Burner2.MassFlow.Points(), 3)
}

func TestDeriveIncrementsMatchesResolvedPhiPoints(t *testing.T) {
	t.Parallel()

	c := job.NewCase(job.KindPartiallyPremixedFlame)
	c.SetMassFlow1(1, 3)
	c.SetMassFlow2(2, 5)
	c.SetPhi2(0.6, 1.2)
	// 0.1 is not exact in binary; (0.7-0.1)/0.1 floors to 5.
	c.SetPhi1(job.Range{Min: 0.1, Max: 0.7, Incr: 0.1})

	require.Len(t, c.Burner1.Phi.Points(), 7)
	assert.Len(t, c.Burner2.Phi.Points(), 7)
	assert.Len(t, c.Burner1.MassFlow.Points(), 7)
	assert.Len(t, c.Burner2.MassFlow.Points(), 7)
	assert.Equal(t, []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7}, c.Burner1.Phi.Points())
	assert.Equal(t, 3.0, c.Burner1.MassFlow.Points()[6])
}

func TestDeriveIncrementsRecomputesOnEveryDependentChange(t *testing.T) {
	t.Parallel()

	c := job.NewCase(job.KindPartiallyPremixedFlame)
	c.SetPhi1(job.Range{Min: 0.5, Max: 1.5, Incr: 0.25})
	assert.InDelta(t, 0.5, c.Burner1.MassFlow.Incr, 1e-12)

	c.SetMassFlow1(2, 6)
	assert.InDelta(t, 1.0, c.Burner1.MassFlow.Incr, 1e-12)

	c.SetMassFlow2(0, 8)
	assert.InDelta(t, 2.0, c.Burner2.MassFlow.Incr, 1e-12)

	c.SetPhi2(1, 3)
	assert.InDelta(t, 0.5, c.Burner2.Phi.Incr, 1e-12)
}

func TestDeriveIncrementsZeroWithoutSteps(t *testing.T) {
	t.Parallel()

	c := job.NewCase(job.KindPartiallyPremixedFlame)
	c.SetPhi1(job.Single(1))
	assert.Zero(t, c.Burner1.MassFlow.Incr)
	assert.Zero(t, c.Burner2.Phi.Incr)
	assert.Zero(t, c.Burner2.MassFlow.Incr)
}

func TestDeriveIncrementsLeavesDiffusionFlameAlone(t *testing.T) {
	t.Parallel()

	c := job.NewCase(job.KindDiffusionFlame)
	c.Burner1.MassFlow.Incr = 0.25
	c.SetPhi1(job.Range{Min: 0.5, Max: 1.5, Incr: 0.5})
	assert.Equal(t, 0.25, c.Burner1.MassFlow.Incr)
}

func TestCaseValidateReportsInvertedRange(t *testing.T) {
	t.Parallel()

	c := job.NewCase(job.KindReactorHP)
	c.Burner1.Temperature = job.Range{Min: 1800, Max: 1400, Incr: 200}
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "temperature")
}

func TestParseConfigKind(t *testing.T) {
	t.Parallel()

	kind, err := job.ParseConfigKind("tp_flame")
	require.NoError(t, err)
	assert.Equal(t, job.KindPremixedCounterflow, kind)
	assert.True(t, kind.IsCounterflow())
	assert.False(t, kind.HasTwoBurners())

	_, err = job.ParseConfigKind("bunsen")
	assert.Error(t, err)
}
