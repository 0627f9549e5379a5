package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"brookesia/internal/fileutil"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	ConditionsDir string `toml:"conditions_dir"`
	MechanismDir  string `toml:"mechanism_dir"`
	StateDir      string `toml:"state_dir"`
	LogDir        string `toml:"log_dir"`
}

// Engine describes how the reduction engine is started. Args may contain
// the {input} placeholder, replaced by the job file path; when absent the
// path is appended.
type Engine struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
	WorkDir string   `toml:"workdir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Defaults seeds new job files.
type Defaults struct {
	Mechanism string `toml:"mechanism"`
	WorkDir   string `toml:"main_path"`
}

// Config encapsulates all configuration values for brookesia.
//
// Configuration sections by subsystem:
//   - Paths: job files, mechanisms, draft store and logs
//   - Engine: reduction engine command line
//   - Logging: log format and level
//   - Defaults: values seeded into new jobs
type Config struct {
	Paths    Paths    `toml:"paths"`
	Engine   Engine   `toml:"engine"`
	Logging  Logging  `toml:"logging"`
	Defaults Defaults `toml:"defaults"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/brookesia/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("brookesia.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the CLI writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.ConditionsDir, c.Paths.StateDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// StorePath returns the draft store database location.
func (c *Config) StorePath() string {
	return filepath.Join(c.Paths.StateDir, "jobs.db")
}

// LastConditionPath returns the job file the engine reads on every run.
func (c *Config) LastConditionPath() string {
	return filepath.Join(c.Paths.ConditionsDir, lastConditionFile)
}

// ConditionPath returns the archived job file for name.
func (c *Config) ConditionPath(name string) string {
	name = strings.TrimSuffix(strings.TrimSpace(name), conditionExt)
	return filepath.Join(c.Paths.ConditionsDir, name+conditionExt)
}

// MechanismPath resolves a mechanism file name against mechanism_dir.
// Absolute paths are returned unchanged.
func (c *Config) MechanismPath(name string) string {
	if filepath.IsAbs(name) || c.Paths.MechanismDir == "" {
		return name
	}
	return filepath.Join(c.Paths.MechanismDir, name)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if err := fileutil.WriteAtomic(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
