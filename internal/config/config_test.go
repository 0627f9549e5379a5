package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"brookesia/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("BROOKESIA_ENGINE_COMMAND", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantConditions := filepath.Join(tempHome, ".local", "share", "brookesia", "conditions")
	if cfg.Paths.ConditionsDir != wantConditions {
		t.Fatalf("unexpected conditions dir: got %q want %q", cfg.Paths.ConditionsDir, wantConditions)
	}
	if cfg.Paths.StateDir != filepath.Join(tempHome, ".local", "share", "brookesia", "state") {
		t.Fatalf("unexpected state dir: %q", cfg.Paths.StateDir)
	}
	if cfg.Engine.Command != "python3" {
		t.Fatalf("unexpected engine command: %q", cfg.Engine.Command)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if got := cfg.LastConditionPath(); got != filepath.Join(wantConditions, "last_condition.inp") {
		t.Fatalf("unexpected last condition path: %q", got)
	}
	if got := cfg.ConditionPath("methane.inp"); got != filepath.Join(wantConditions, "methane.inp") {
		t.Fatalf("unexpected condition path: %q", got)
	}
	if got := cfg.StorePath(); filepath.Base(got) != "jobs.db" {
		t.Fatalf("unexpected store path: %q", got)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "brookesia.toml")
	t.Setenv("BROOKESIA_ENGINE_COMMAND", "")

	type payload struct {
		Paths struct {
			ConditionsDir string `toml:"conditions_dir"`
			MechanismDir  string `toml:"mechanism_dir"`
		} `toml:"paths"`
		Engine struct {
			Command string   `toml:"command"`
			Args    []string `toml:"args"`
		} `toml:"engine"`
		Logging struct {
			Format string `toml:"format"`
			Level  string `toml:"level"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.ConditionsDir = filepath.Join(tempDir, "conditions")
	custom.Paths.MechanismDir = filepath.Join(tempDir, "mech")
	custom.Engine.Command = "reduce"
	custom.Engine.Args = []string{"--input", "{input}"}
	custom.Logging.Format = "JSON"
	custom.Logging.Level = "DEBUG"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Engine.Command != "reduce" {
		t.Fatalf("expected engine command from file, got %q", cfg.Engine.Command)
	}
	if len(cfg.Engine.Args) != 2 || cfg.Engine.Args[1] != config.InputPlaceholder {
		t.Fatalf("unexpected engine args: %v", cfg.Engine.Args)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected normalized logging settings, got %+v", cfg.Logging)
	}
	if got := cfg.MechanismPath("gri30.cti"); got != filepath.Join(tempDir, "mech", "gri30.cti") {
		t.Fatalf("unexpected mechanism path: %q", got)
	}
	if got := cfg.MechanismPath("/abs/gri30.cti"); got != "/abs/gri30.cti" {
		t.Fatalf("absolute mechanism path rewritten: %q", got)
	}
}

func TestEnvVarOverridesEngineCommand(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "brookesia.toml")
	if err := os.WriteFile(configPath, []byte("[engine]\ncommand = \"from-file\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("BROOKESIA_ENGINE_COMMAND", "  from-env  ")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Engine.Command != "from-env" {
		t.Errorf("expected engine command from env, got %q", cfg.Engine.Command)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "brookesia.toml")
	if err := os.WriteFile(configPath, []byte("[paths\nconditions_dir = 1"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "{input}") {
		t.Fatalf("sample config missing input placeholder: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if !strings.Contains(cfg.Paths.ConditionsDir, "brookesia") {
		t.Fatalf("expected conditions dir to contain brookesia, got %q", cfg.Paths.ConditionsDir)
	}
	if cfg.Defaults.Mechanism != "gri30.cti" {
		t.Fatalf("unexpected default mechanism %q", cfg.Defaults.Mechanism)
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.ConditionsDir = filepath.Join(base, "conditions")
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.ConditionsDir, cfg.Paths.StateDir, cfg.Paths.LogDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q, err=%v", dir, err)
		}
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Engine.Command = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty engine command")
	}

	cfg = config.Default()
	cfg.Engine.Args = []string{"{input}", "--copy={input}"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for repeated input placeholder")
	}

	cfg = config.Default()
	cfg.Paths.StateDir = " "
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for blank state dir")
	}

	cfg = config.Default()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log format")
	}

	cfg = config.Default()
	cfg.Logging.Level = "chatty"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log level")
	}

	cfg = config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}
