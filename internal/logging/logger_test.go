package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"brookesia/internal/config"
	"brookesia/internal/job"
	"brookesia/internal/logging"
	"brookesia/internal/services"
)

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("config loaded", logging.String("mechanism", "gri30.cti"))

	data, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "brookesia.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "config loaded") {
		t.Fatalf("expected message in log file, got %q", data)
	}
}

func TestConsoleLoggerOmitsSourceForInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.NewComponentLogger(logger, "jobfile").Info("encoded job", logging.Int("cases", 3))

	line := buf.String()
	if !strings.Contains(line, "INFO jobfile: encoded job") {
		t.Fatalf("unexpected console line %q", line)
	}
	if !strings.Contains(line, "cases=3") {
		t.Fatalf("expected attribute in %q", line)
	}
	if strings.Contains(line, "logger_test.go") {
		t.Fatalf("did not expect source location at info level: %q", line)
	}
}

func TestConsoleLoggerIncludesSourceForDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("parsing case", logging.String("config", "pp_flame"))

	if !strings.Contains(buf.String(), "logger_test.go:") {
		t.Fatalf("expected source location at debug level: %q", buf.String())
	}
}

func TestConsoleLoggerQuotesValues(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Warn("rejected", logging.Error(errors.New("bad value")), logging.String("path", ""))

	line := buf.String()
	if !strings.Contains(line, `error="bad value"`) || !strings.Contains(line, `path=""`) {
		t.Fatalf("expected quoted values in %q", line)
	}
}

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("saved draft", logging.String(logging.FieldStoreID, "abc"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode json line: %v", err)
	}
	if record["msg"] != "saved draft" || record["level"] != "info" || record["store_id"] != "abc" {
		t.Fatalf("unexpected record %v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key in %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml", Writer: &bytes.Buffer{}}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNewInvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "chatty", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestWithContextAddsFields(t *testing.T) {
	var buf bytes.Buffer
	base, err := logging.New(logging.Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithJobName(context.Background(), "methane")
	ctx = services.WithStoreID(ctx, "s-1")
	ctx = services.WithRequestID(ctx, "req-9")
	logging.WithContext(ctx, base).Info("submitted")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode json line: %v", err)
	}
	if record[logging.FieldJob] != "methane" || record[logging.FieldStoreID] != "s-1" || record[logging.FieldCorrelationID] != "req-9" {
		t.Fatalf("missing context fields: %v", record)
	}
}

func TestWithContextNilLogger(t *testing.T) {
	logger := logging.WithContext(context.Background(), nil)
	if logger == nil {
		t.Fatal("expected no-op logger")
	}
	logger.Info("discarded")
}

func TestWarnWithContextAddsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "mechanism summary missing", "mechanism_summary")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode json line: %v", err)
	}
	if record[logging.FieldEventType] != "mechanism_summary" || record[logging.FieldErrorHint] == nil {
		t.Fatalf("expected defaults in %v", record)
	}
}

func TestConsoleLoggerPrefixesJobName(t *testing.T) {
	var buf bytes.Buffer
	base, err := logging.New(logging.Options{Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := services.WithJobName(context.Background(), "methane")
	logger := logging.WithContext(ctx, logging.NewComponentLogger(base, "engine"))

	c := job.NewCase(job.KindPartiallyPremixedFlame)
	logger.Info("case queued", logging.CaseRef(0, c))

	line := buf.String()
	if !strings.Contains(line, "INFO engine[methane]: case queued") {
		t.Fatalf("expected job in prefix: %q", line)
	}
	if strings.Contains(line, "job=methane") {
		t.Fatalf("job name repeated as a pair: %q", line)
	}
	if !strings.Contains(line, "case.n=1 case.config=pp_flame case.points=") {
		t.Fatalf("expected flattened case group: %q", line)
	}
}

func TestConsoleLoggerGroupsPrefixAttrs(t *testing.T) {
	var buf bytes.Buffer
	base, err := logging.New(logging.Options{Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	j := job.NewJob()
	j.AddCase(job.KindReactorUV)
	j.Pipeline.Reductions = append(j.Pipeline.Reductions, j.NewReduction(job.MethodDRGEPSpecies))

	logger := base.WithGroup("submit").With(logging.JobShape(j))
	logger.Info("queued", logging.StageRef(0, j.Pipeline.Stages()[0]))

	line := buf.String()
	for _, want := range []string{
		"submit.job_shape.cases=1",
		"submit.job_shape.active=1",
		"submit.job_shape.stages=1",
		"submit.stage.n=1 submit.stage.op=DRGEP_sp",
	} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
}

func TestJSONLoggerErrorCarriesExitCode(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	cause := services.Wrap(services.ErrValidation, "jobfile", "decode", "line 4", nil)
	logger.Error("job rejected", logging.Error(cause), logging.JobShape(nil))

	var record struct {
		Level string `json:"level"`
		Error struct {
			Msg      string `json:"msg"`
			ExitCode int    `json:"exit_code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode json line: %v", err)
	}
	if record.Level != "error" || record.Error.ExitCode != services.ExitValidation {
		t.Fatalf("unexpected record %+v", record)
	}
	if !strings.Contains(record.Error.Msg, "line 4") {
		t.Fatalf("unexpected error message %q", record.Error.Msg)
	}
	if strings.Contains(buf.String(), logging.FieldJobShape) {
		t.Fatalf("nil job should not log a shape: %s", buf.String())
	}
}
