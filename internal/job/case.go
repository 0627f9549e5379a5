package job

import (
	"errors"
	"fmt"
	"strings"
)

// Composition describes the reactants of one stream. When Mixture is set it
// replaces the fuel, oxidant and diluent fields with an explicit list such
// as "CH4:1, O2:2".
type Composition struct {
	Fuel         string `json:"fuel,omitempty" yaml:"fuel,omitempty"`
	Oxidant      string `json:"oxidant,omitempty" yaml:"oxidant,omitempty"`
	Diluent      string `json:"diluent,omitempty" yaml:"diluent,omitempty"`
	DiluentRatio string `json:"diluent_ratio,omitempty" yaml:"diluent_ratio,omitempty"`
	Mixture      string `json:"mixture,omitempty" yaml:"mixture,omitempty"`
}

// IsMixture reports whether the stream is given as an explicit mixture.
func (c Composition) IsMixture() bool {
	return strings.Contains(c.Mixture, ":")
}

// Burner is one inlet stream. Premixed kinds use only burner 1.
type Burner struct {
	Composition Composition `json:"composition" yaml:"composition"`
	Temperature Range       `json:"temperature" yaml:"temperature"`
	Phi         Range       `json:"phi" yaml:"phi"`
	MassFlow    Range       `json:"mass_flow" yaml:"mass_flow"`
}

// Tolerance is an (absolute, relative) solver tolerance pair.
type Tolerance struct {
	Abs float64 `json:"abs" yaml:"abs"`
	Rel float64 `json:"rel" yaml:"rel"`
}

// ReactorOptions drive the time stepping of closed reactors.
type ReactorOptions struct {
	Points         int     `json:"n_pts" yaml:"n_pts"`
	DeltaPoints    int     `json:"delta_npts" yaml:"delta_npts"`
	TMaxCoeff      float64 `json:"t_max_coeff" yaml:"t_max_coeff"`
	ScalarRef      string  `json:"scal_ref" yaml:"scal_ref"`
	GradCurvRatio  float64 `json:"grad_curv_ratio" yaml:"grad_curv_ratio"`
	IgnitionPoints int     `json:"tign_n_points" yaml:"tign_n_points"`
	IgnitionDt     float64 `json:"tign_dt" yaml:"tign_dt"`
}

// PSROptions hold the perfectly-stirred reactor residence time.
type PSROptions struct {
	ResidenceTime float64 `json:"t_max" yaml:"t_max"`
}

// PFROptions describe the plug-flow reactor geometry.
type PFROptions struct {
	Points        int     `json:"n_pts" yaml:"n_pts"`
	Area          float64 `json:"area" yaml:"area"`
	Length        float64 `json:"length" yaml:"length"`
	InletVelocity float64 `json:"u_0" yaml:"u_0"`
}

// FlameOptions control flame meshing and transport.
type FlameOptions struct {
	Slope     float64   `json:"slope" yaml:"slope"`
	Curve     float64   `json:"curve" yaml:"curve"`
	Ratio     float64   `json:"ratio" yaml:"ratio"`
	Prune     float64   `json:"prune" yaml:"prune"`
	Scatter   []float64 `json:"pts_scatter" yaml:"pts_scatter"`
	Width     float64   `json:"width" yaml:"width"`
	Transport Transport `json:"transport_model" yaml:"transport_model"`
}

// Case is one simulation condition.
type Case struct {
	Kind      ConfigKind     `json:"config" yaml:"config"`
	Active    bool           `json:"active" yaml:"active"`
	Pressure  Range          `json:"pressure" yaml:"pressure"`
	Burner1   Burner         `json:"burner_1" yaml:"burner_1"`
	Burner2   Burner         `json:"burner_2" yaml:"burner_2"`
	Reactor   ReactorOptions `json:"reactor" yaml:"reactor"`
	PSR       PSROptions     `json:"psr" yaml:"psr"`
	PFR       PFROptions     `json:"pfr" yaml:"pfr"`
	Flame     FlameOptions   `json:"flame" yaml:"flame"`
	TimeTol   Tolerance      `json:"tol_ts" yaml:"tol_ts"`
	SteadyTol Tolerance      `json:"tol_ss" yaml:"tol_ss"`
}

// SetPhi1 updates the burner 1 equivalence-ratio sweep.
func (c *Case) SetPhi1(r Range) {
	c.Burner1.Phi = r
	c.DeriveIncrements()
}

// SetPhi2 updates the burner 2 equivalence-ratio bounds.
func (c *Case) SetPhi2(min, max float64) {
	c.Burner2.Phi.Min, c.Burner2.Phi.Max = min, max
	c.DeriveIncrements()
}

// SetMassFlow1 updates the burner 1 mass-flow bounds.
func (c *Case) SetMassFlow1(min, max float64) {
	c.Burner1.MassFlow.Min, c.Burner1.MassFlow.Max = min, max
	c.DeriveIncrements()
}

// SetMassFlow2 updates the burner 2 mass-flow bounds.
func (c *Case) SetMassFlow2(min, max float64) {
	c.Burner2.MassFlow.Min, c.Burner2.MassFlow.Max = min, max
	c.DeriveIncrements()
}

// DeriveIncrements aligns the counterflow sweeps on the burner 1
// equivalence-ratio sweep: with nb the number of steps between its
// resolved points, every other swept quantity moves by its span divided by
// nb, so all sweeps resolve to the same point count. All derived
// increments are zero when nb is zero. Kinds without derived sweeps are
// left untouched.
func (c *Case) DeriveIncrements() {
	if !c.Kind.DerivesIncrements() {
		return
	}
	steps := c.phiSteps()
	derive := func(min, max float64) float64 {
		if steps == 0 {
			return 0
		}
		return roundSweep((max - min) / float64(steps))
	}
	c.Burner1.MassFlow.Incr = derive(c.Burner1.MassFlow.Min, c.Burner1.MassFlow.Max)
	if c.Kind.HasTwoBurners() {
		c.Burner2.Phi.Incr = derive(c.Burner2.Phi.Min, c.Burner2.Phi.Max)
		c.Burner2.MassFlow.Incr = derive(c.Burner2.MassFlow.Min, c.Burner2.MassFlow.Max)
	}
}

// phiSteps counts the steps of the burner 1 phi sweep with the same
// half-step tolerance Resolve uses.
func (c *Case) phiSteps() int {
	phi := c.Burner1.Phi
	if phi.Incr == 0 {
		return 0
	}
	n := phi.Count()
	if n <= 1 || n > maxRangePoints {
		return 0
	}
	return n - 1
}

// Validate checks the fields the job file needs for the case kind.
func (c *Case) Validate() error {
	if !c.Kind.Valid() {
		return fmt.Errorf("unknown config kind %q", c.Kind)
	}
	var errs []error
	check := func(name string, r Range) {
		if err := r.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	check("pressure", c.Pressure)
	check("temperature", c.Burner1.Temperature)
	check("phi", c.Burner1.Phi)
	if c.Kind.IsCounterflow() {
		check("mass flow", c.Burner1.MassFlow)
	}
	if c.Kind.HasTwoBurners() {
		check("temperature 2", c.Burner2.Temperature)
		check("mass flow 2", c.Burner2.MassFlow)
		if c.Kind == KindPartiallyPremixedFlame {
			check("phi 2", c.Burner2.Phi)
		}
	}
	if c.Kind.IsFlame() {
		if _, err := ParseTransport(string(c.Flame.Transport)); err != nil {
			errs = append(errs, err)
		}
	}
	if !c.Burner1.Composition.IsMixture() && strings.TrimSpace(c.Burner1.Composition.Fuel) == "" {
		errs = append(errs, errors.New("fuel must be set"))
	}
	return errors.Join(errs...)
}
