package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"brookesia/internal/config"
	"brookesia/internal/testsupport"
)

const testEngine = "reduce-engine"

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t,
		testsupport.WithEngine(testEngine, "{input}"),
		testsupport.WithStubbedBinaries(),
	)
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("BROOKESIA_ENGINE_COMMAND", "")

	if err := os.MkdirAll(cfg.Paths.MechanismDir, 0o755); err != nil {
		t.Fatalf("mkdir mechanism dir: %v", err)
	}

	configPath := filepath.Join(base, "brookesia.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--log-level", "error"}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nconditions_dir = %q\nmechanism_dir = %q\nstate_dir = %q\nlog_dir = %q\n\n"+
			"[engine]\ncommand = %q\nargs = [%q]\n\n"+
			"[defaults]\nmechanism = %q\nmain_path = %q\n",
		cfg.Paths.ConditionsDir,
		cfg.Paths.MechanismDir,
		cfg.Paths.StateDir,
		cfg.Paths.LogDir,
		cfg.Engine.Command,
		config.InputPlaceholder,
		cfg.Defaults.Mechanism,
		cfg.Defaults.WorkDir,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// writeSampleJob scaffolds a job file through the CLI and returns its path.
func writeSampleJob(t *testing.T, env *cliTestEnv, name string) string {
	t.Helper()
	path := filepath.Join(env.baseDir, name+".inp")
	_, _, err := runCLI(t, []string{
		"job", "new",
		"--case", "reactor_HP",
		"--case", "free_flame",
		"--operator", "DRGEP_sp",
		"--operator", "SAR_r",
		"--species", "CO,CH4",
		"-o", path,
	}, env.configPath)
	if err != nil {
		t.Fatalf("job new: %v", err)
	}
	return path
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
