package job

import "fmt"

// ConfigKind selects the simulation a case describes.
type ConfigKind string

const (
	KindReactorUV              ConfigKind = "reactor_UV"
	KindReactorHP              ConfigKind = "reactor_HP"
	KindPSR                    ConfigKind = "PSR"
	KindPFR                    ConfigKind = "PFR"
	KindFreeFlame              ConfigKind = "free_flame"
	KindDiffusionFlame         ConfigKind = "diff_flame"
	KindPartiallyPremixedFlame ConfigKind = "pp_flame"
	KindPremixedCounterflow    ConfigKind = "tp_flame"
)

// ConfigKinds lists every kind in display order.
var ConfigKinds = []ConfigKind{
	KindReactorUV,
	KindReactorHP,
	KindPSR,
	KindPFR,
	KindFreeFlame,
	KindDiffusionFlame,
	KindPartiallyPremixedFlame,
	KindPremixedCounterflow,
}

// ParseConfigKind maps a job-file token to its kind.
func ParseConfigKind(token string) (ConfigKind, error) {
	for _, kind := range ConfigKinds {
		if string(kind) == token {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown config kind %q", token)
}

// Valid reports whether k is one of the known kinds.
func (k ConfigKind) Valid() bool {
	_, err := ParseConfigKind(string(k))
	return err == nil
}

// IsReactor reports the closed homogeneous reactors.
func (k ConfigKind) IsReactor() bool {
	return k == KindReactorUV || k == KindReactorHP
}

// IsFlame reports every flame kind, free or counterflow.
func (k ConfigKind) IsFlame() bool {
	return k == KindFreeFlame || k.IsCounterflow()
}

// IsCounterflow reports the opposed-jet flames.
func (k ConfigKind) IsCounterflow() bool {
	return k == KindDiffusionFlame || k == KindPartiallyPremixedFlame || k == KindPremixedCounterflow
}

// HasTwoBurners reports counterflow kinds fed by two distinct streams.
func (k ConfigKind) HasTwoBurners() bool {
	return k == KindDiffusionFlame || k == KindPartiallyPremixedFlame
}

// IsPremixed reports kinds described by a single premixed composition.
func (k ConfigKind) IsPremixed() bool {
	return !k.HasTwoBurners()
}

// DerivesIncrements reports kinds whose mass-flow sweep follows the
// equivalence-ratio steps of burner 1.
func (k ConfigKind) DerivesIncrements() bool {
	return k == KindPartiallyPremixedFlame || k == KindPremixedCounterflow
}

// Transport is the flame transport model.
type Transport string

const (
	TransportMix  Transport = "Mix"
	TransportMult Transport = "Mult"
)

// ParseTransport maps a job-file token to its transport model.
func ParseTransport(token string) (Transport, error) {
	switch Transport(token) {
	case TransportMix, TransportMult:
		return Transport(token), nil
	}
	return "", fmt.Errorf("unknown transport model %q", token)
}
