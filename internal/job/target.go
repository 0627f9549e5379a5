package job

import "slices"

// TargetKind identifies a monitored quantity.
type TargetKind int

const (
	TargetStrainRate TargetKind = iota
	TargetIgnitionDelay
	TargetFlameSpeed
	TargetTemperature
	TargetSpecies
)

// BuiltinKinds lists the built-in targets in threshold-table order.
var BuiltinKinds = []TargetKind{
	TargetStrainRate,
	TargetIgnitionDelay,
	TargetFlameSpeed,
	TargetTemperature,
}

// Label returns the short name used in threshold tables.
func (k TargetKind) Label() string {
	switch k {
	case TargetStrainRate:
		return "K"
	case TargetIgnitionDelay:
		return "Ig_t"
	case TargetFlameSpeed:
		return "Sl"
	case TargetTemperature:
		return "T"
	default:
		return "species"
	}
}

// TargetKey names one row of an error-threshold table.
type TargetKey struct {
	Kind    TargetKind `json:"kind" yaml:"kind"`
	Species string     `json:"species,omitempty" yaml:"species,omitempty"`
}

// SpeciesKey returns the key of a species target.
func SpeciesKey(name string) TargetKey {
	return TargetKey{Kind: TargetSpecies, Species: name}
}

// BuiltinKey returns the key of a built-in target.
func BuiltinKey(kind TargetKind) TargetKey {
	return TargetKey{Kind: kind}
}

func (k TargetKey) String() string {
	if k.Kind == TargetSpecies {
		return k.Species
	}
	return k.Kind.Label()
}

// BuiltinTarget is a built-in quantity gated by a flag. Species lists the
// reference species the engine tracks for it.
type BuiltinTarget struct {
	Enabled bool     `json:"enabled" yaml:"enabled"`
	Species []string `json:"species" yaml:"species"`
}

// Targets is the set of quantities a reduction must preserve.
type Targets struct {
	StrainRate    BuiltinTarget `json:"strain_rate" yaml:"strain_rate"`
	IgnitionDelay BuiltinTarget `json:"ignition_delay" yaml:"ignition_delay"`
	FlameSpeed    BuiltinTarget `json:"flame_speed" yaml:"flame_speed"`
	Temperature   BuiltinTarget `json:"temperature" yaml:"temperature"`
	Species       []string      `json:"species" yaml:"species"`
}

// Builtin returns the built-in target of the given kind.
func (t *Targets) Builtin(kind TargetKind) *BuiltinTarget {
	switch kind {
	case TargetStrainRate:
		return &t.StrainRate
	case TargetIgnitionDelay:
		return &t.IgnitionDelay
	case TargetFlameSpeed:
		return &t.FlameSpeed
	case TargetTemperature:
		return &t.Temperature
	}
	return nil
}

// Keys returns the active targets in threshold-table order: enabled
// built-ins as K, Ig_t, Sl, T, then species in list order.
func (t Targets) Keys() []TargetKey {
	keys := make([]TargetKey, 0, len(BuiltinKinds)+len(t.Species))
	for _, kind := range BuiltinKinds {
		if t.Builtin(kind).Enabled {
			keys = append(keys, BuiltinKey(kind))
		}
	}
	for _, name := range t.Species {
		keys = append(keys, SpeciesKey(name))
	}
	return keys
}

// HasSpecies reports whether name is a species target.
func (t Targets) HasSpecies(name string) bool {
	return slices.Contains(t.Species, name)
}

// Threshold is the allowed error, in percent, on one target.
type Threshold struct {
	Key     TargetKey `json:"key" yaml:"key"`
	Percent float64   `json:"percent" yaml:"percent"`
}

// ErrorThresholds is an ordered threshold table.
type ErrorThresholds []Threshold

// NewErrorThresholds builds a table with every key at the default.
func NewErrorThresholds(keys []TargetKey) ErrorThresholds {
	return ErrorThresholds(nil).Rekey(keys)
}

// Get returns the threshold recorded for key.
func (e ErrorThresholds) Get(key TargetKey) (float64, bool) {
	for _, t := range e {
		if t.Key == key {
			return t.Percent, true
		}
	}
	return 0, false
}

// Set records a threshold, appending the key when absent.
func (e *ErrorThresholds) Set(key TargetKey, percent float64) {
	for i := range *e {
		if (*e)[i].Key == key {
			(*e)[i].Percent = percent
			return
		}
	}
	*e = append(*e, Threshold{Key: key, Percent: percent})
}

// Rekey returns a table whose rows are exactly keys, in order. Existing
// values are kept, new keys get DefaultTargetError.
func (e ErrorThresholds) Rekey(keys []TargetKey) ErrorThresholds {
	out := make(ErrorThresholds, 0, len(keys))
	for _, key := range keys {
		percent, ok := e.Get(key)
		if !ok {
			percent = DefaultTargetError
		}
		out = append(out, Threshold{Key: key, Percent: percent})
	}
	return out
}

// Species returns the species rows in order.
func (e ErrorThresholds) Species() []Threshold {
	var out []Threshold
	for _, t := range e {
		if t.Key.Kind == TargetSpecies {
			out = append(out, t)
		}
	}
	return out
}
