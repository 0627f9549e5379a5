package config

const (
	defaultConditionsDir = "~/.local/share/brookesia/conditions"
	defaultMechanismDir  = "~/.local/share/brookesia/mechanisms"
	defaultStateDir      = "~/.local/share/brookesia/state"
	defaultLogDir        = "~/.local/share/brookesia/logs"
	defaultEngineCommand = "python3"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
	defaultMechanism     = "gri30.cti"

	lastConditionFile = "last_condition.inp"
	conditionExt      = ".inp"

	// InputPlaceholder is replaced by the job file path in engine.args.
	InputPlaceholder = "{input}"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ConditionsDir: defaultConditionsDir,
			MechanismDir:  defaultMechanismDir,
			StateDir:      defaultStateDir,
			LogDir:        defaultLogDir,
		},
		Engine: Engine{
			Command: defaultEngineCommand,
			Args:    []string{"main_red.py", InputPlaceholder},
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Defaults: Defaults{
			Mechanism: defaultMechanism,
		},
	}
}
