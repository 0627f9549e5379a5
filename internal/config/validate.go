package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateEngine(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.ConditionsDir) == "" {
		return errors.New("paths.conditions_dir must be set")
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateEngine() error {
	if c.Engine.Command == "" {
		return errors.New("engine.command must be set. Set BROOKESIA_ENGINE_COMMAND or edit the [engine] section")
	}
	placeholders := 0
	for _, arg := range c.Engine.Args {
		placeholders += strings.Count(arg, InputPlaceholder)
	}
	if placeholders > 1 {
		return fmt.Errorf("engine.args must reference %s at most once", InputPlaceholder)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
