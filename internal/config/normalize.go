package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeEngine(); err != nil {
		return err
	}
	c.normalizeLogging()
	c.Defaults.Mechanism = strings.TrimSpace(c.Defaults.Mechanism)
	c.Defaults.WorkDir = strings.TrimSpace(c.Defaults.WorkDir)
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.ConditionsDir) == "" {
		c.Paths.ConditionsDir = defaultConditionsDir
	}
	if c.Paths.ConditionsDir, err = expandPath(c.Paths.ConditionsDir); err != nil {
		return fmt.Errorf("paths.conditions_dir: %w", err)
	}
	if c.Paths.MechanismDir, err = expandPath(strings.TrimSpace(c.Paths.MechanismDir)); err != nil {
		return fmt.Errorf("paths.mechanism_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeEngine() error {
	if value, ok := os.LookupEnv("BROOKESIA_ENGINE_COMMAND"); ok && strings.TrimSpace(value) != "" {
		c.Engine.Command = strings.TrimSpace(value)
	}
	c.Engine.Command = strings.TrimSpace(c.Engine.Command)
	if c.Engine.WorkDir != "" {
		var err error
		if c.Engine.WorkDir, err = expandPath(strings.TrimSpace(c.Engine.WorkDir)); err != nil {
			return fmt.Errorf("engine.workdir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch format {
	case "", "console", "pretty", "text":
		c.Logging.Format = "console"
	default:
		c.Logging.Format = format
	}
	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level
}
