package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"brookesia/internal/services"
)

const unformattedJob = `mech = gri30.cti
tspc = CO, CH4

#======> Case 1
config = reactor_UV

#=============================================
#           Operators
#=============================================
#===========> Op: DRGEP_sp
operator = DRGEP_sp
`

func TestJobNewShowAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)
	path := writeSampleJob(t, env, "methane")

	out, _, err := runCLI(t, []string{"job", "show", path}, env.configPath)
	if err != nil {
		t.Fatalf("job show: %v", err)
	}
	requireContains(t, out, "Mechanism: gri30.cti")
	requireContains(t, out, "DRGEP_sp")
	requireContains(t, out, "SAR_r")

	out, _, err = runCLI(t, []string{"job", "validate", path}, env.configPath)
	if err != nil {
		t.Fatalf("job validate: %v", err)
	}
	requireContains(t, out, "[OK] valid")
}

func TestJobNewToStdout(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"job", "new", "--ga", "--operator", "SAR_r"}, env.configPath)
	if err != nil {
		t.Fatalf("job new: %v", err)
	}
	requireContains(t, out, "mech              = gri30.cti")
	requireContains(t, out, "operator        = SAR_r")
	// No mechanism summary is installed, so the GA keeps the H2 and CO defaults.
	requireContains(t, out, "H2, CO")
}

func TestJobNewRefusesOverwrite(t *testing.T) {
	env := setupCLITestEnv(t)
	path := writeSampleJob(t, env, "methane")

	_, _, err := runCLI(t, []string{"job", "new", "-o", path}, env.configPath)
	if !errors.Is(err, services.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	if _, _, err := runCLI(t, []string{"job", "new", "-o", path, "--force"}, env.configPath); err != nil {
		t.Fatalf("job new --force: %v", err)
	}
}

func TestJobNewRejectsUnknownOperator(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"job", "new", "--operator", "XYZ"}, env.configPath)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestJobValidateReportsEveryFile(t *testing.T) {
	env := setupCLITestEnv(t)
	good := writeSampleJob(t, env, "good")
	bad := filepath.Join(env.baseDir, "bad.inp")
	if err := os.WriteFile(bad, []byte("mech = x\n#===========> Op: DRG_sp\n"), 0o644); err != nil {
		t.Fatalf("write bad job: %v", err)
	}

	out, _, err := runCLI(t, []string{"job", "validate", "--json", good, bad}, env.configPath)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	var results []validationResult
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode results: %v\n%s", err, out)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Path != good || !results[0].Valid {
		t.Fatalf("unexpected first result %+v", results[0])
	}
	if results[1].Path != bad || results[1].Valid || !strings.Contains(results[1].Error, "line 2") {
		t.Fatalf("unexpected second result %+v", results[1])
	}
}

func TestJobShowMissingFile(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"job", "show", filepath.Join(env.baseDir, "absent.inp")}, env.configPath)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestJobFmtWrite(t *testing.T) {
	env := setupCLITestEnv(t)
	path := filepath.Join(env.baseDir, "loose.inp")
	if err := os.WriteFile(path, []byte(unformattedJob), 0o644); err != nil {
		t.Fatalf("write job: %v", err)
	}

	out, _, err := runCLI(t, []string{"job", "fmt", "-w", path}, env.configPath)
	if err != nil {
		t.Fatalf("job fmt: %v", err)
	}
	requireContains(t, out, "Formatted")

	formatted, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read job: %v", err)
	}
	requireContains(t, string(formatted), "#           Main parameters")

	out, _, err = runCLI(t, []string{"job", "fmt", "-w", path}, env.configPath)
	if err != nil {
		t.Fatalf("job fmt again: %v", err)
	}
	if out != "" {
		t.Fatalf("expected no output for an already formatted file, got %q", out)
	}
}

func TestJobGraph(t *testing.T) {
	env := setupCLITestEnv(t)
	path := writeSampleJob(t, env, "methane")

	out, _, err := runCLI(t, []string{"job", "graph", path}, env.configPath)
	if err != nil {
		t.Fatalf("job graph: %v", err)
	}
	requireContains(t, out, "strict digraph pipeline {")
	requireContains(t, out, `"stage_1" -> "stage_2"`)

	target := filepath.Join(env.baseDir, "out", "pipeline.dot")
	out, _, err = runCLI(t, []string{"job", "graph", "-o", target, path}, env.configPath)
	if err != nil {
		t.Fatalf("job graph -o: %v", err)
	}
	requireContains(t, out, "Wrote "+target)
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected dot file: %v", err)
	}
}

func TestJobExport(t *testing.T) {
	env := setupCLITestEnv(t)
	path := writeSampleJob(t, env, "methane")

	out, _, err := runCLI(t, []string{"job", "export", path}, env.configPath)
	if err != nil {
		t.Fatalf("job export: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if _, ok := decoded["pipeline"]; !ok {
		t.Fatalf("expected pipeline key in %v", decoded)
	}

	out, _, err = runCLI(t, []string{"job", "export", "-f", "yaml", path}, env.configPath)
	if err != nil {
		t.Fatalf("job export yaml: %v", err)
	}
	requireContains(t, out, "method: DRGEP_sp")

	if _, _, err := runCLI(t, []string{"job", "export", "-f", "xml", path}, env.configPath); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestDraftName(t *testing.T) {
	if got := draftName("/data/jobs/methane.inp"); got != "methane" {
		t.Fatalf("draftName = %q", got)
	}
}
