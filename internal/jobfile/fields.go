package jobfile

import (
	"strings"

	"brookesia/internal/job"
)

// fieldSetter parses one value into a block of type T.
type fieldSetter[T any] func(*T, string) error

// applyField dispatches key through table. Unknown keys are ignored so
// files written by newer engines still load.
func applyField[T any](table map[string]fieldSetter[T], target *T, key, value string) error {
	set, ok := table[key]
	if !ok {
		return nil
	}
	return set(target, value)
}

func setString[T any](field func(*T) **string) fieldSetter[T] {
	return func(t *T, v string) error {
		s := cleanValue(v)
		*field(t) = &s
		return nil
	}
}

func setFloat[T any](field func(*T) **float64) fieldSetter[T] {
	return func(t *T, v string) error {
		f, err := parseFloat(v)
		if err != nil {
			return err
		}
		*field(t) = &f
		return nil
	}
}

func setInt[T any](field func(*T) **int) fieldSetter[T] {
	return func(t *T, v string) error {
		n, err := parseInt(v)
		if err != nil {
			return err
		}
		*field(t) = &n
		return nil
	}
}

func setBool[T any](field func(*T) **bool) fieldSetter[T] {
	return func(t *T, v string) error {
		b, err := parseBool(v)
		if err != nil {
			return err
		}
		*field(t) = &b
		return nil
	}
}

func setFloats[T any](field func(*T) *[]float64) fieldSetter[T] {
	return func(t *T, v string) error {
		values, err := parseFloats(v)
		if err != nil {
			return err
		}
		*field(t) = values
		return nil
	}
}

func setStrings[T any](field func(*T) *[]string) fieldSetter[T] {
	return func(t *T, v string) error {
		*field(t) = parseList(v)
		return nil
	}
}

// mainFields write straight into the job, which starts from the defaults.
var mainFields = map[string]fieldSetter[job.Job]{
	"main_path": func(j *job.Job, v string) error { j.Main.WorkDir = cleanValue(v); return nil },
	"mech":      func(j *job.Job, v string) error { j.Main.Mechanism = cleanValue(v); return nil },
	"mech_prev_red": func(j *job.Job, v string) error {
		j.Main.ReducedMechanism = cleanValue(v)
		return nil
	},
	"ext_results_file": func(j *job.Job, v string) error { external(j).File = cleanValue(v); return nil },
	"conc_units":       func(j *job.Job, v string) error { external(j).ConcUnits = cleanValue(v); return nil },
	"ext_data_type":    func(j *job.Job, v string) error { external(j).DataType = cleanValue(v); return nil },
	"verbose": func(j *job.Job, v string) error {
		n, err := parseInt(v)
		j.Main.Verbose = n
		return err
	},
	"show_plots": func(j *job.Job, v string) error {
		b, err := parseBool(v)
		j.Main.ShowPlots = b
		return err
	},
	"tspc": func(j *job.Job, v string) error {
		j.Targets.Species = nonEmpty(parseList(v))
		return nil
	},
	"T_check":  builtinCheck(job.TargetTemperature),
	"Sl_check": builtinCheck(job.TargetFlameSpeed),
	"ig_check": builtinCheck(job.TargetIgnitionDelay),
	"K_check":  builtinCheck(job.TargetStrainRate),
	"sp_T":     builtinSpecies(job.TargetTemperature),
	"sp_Sl":    builtinSpecies(job.TargetFlameSpeed),
	"sp_ig":    builtinSpecies(job.TargetIgnitionDelay),
	"sp_K":     builtinSpecies(job.TargetStrainRate),
	"error_calculation": func(j *job.Job, v string) error {
		j.Main.ErrorCalculation = job.ErrorCalculation(cleanValue(v))
		return nil
	},
	"error_coupling": func(j *job.Job, v string) error {
		j.Main.ErrorCoupling = job.ErrorCoupling(cleanValue(v))
		return nil
	},
}

func external(j *job.Job) *job.ExternalResults {
	if j.Main.External == nil {
		j.Main.External = &job.ExternalResults{}
	}
	return j.Main.External
}

func builtinCheck(kind job.TargetKind) fieldSetter[job.Job] {
	return func(j *job.Job, v string) error {
		b, err := parseBool(v)
		if err != nil {
			return err
		}
		j.Targets.Builtin(kind).Enabled = b
		return nil
	}
}

// builtinSpecies accepts both comma and space separated lists.
func builtinSpecies(kind job.TargetKind) fieldSetter[job.Job] {
	return func(j *job.Job, v string) error {
		j.Targets.Builtin(kind).Species = strings.Fields(strings.ReplaceAll(cleanValue(v), ",", " "))
		return nil
	}
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
