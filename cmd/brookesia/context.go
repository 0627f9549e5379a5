package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"brookesia/internal/config"
	"brookesia/internal/jobstore"
	"brookesia/internal/logging"
	"brookesia/internal/mechanism"
	"brookesia/internal/services"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", "", err)
			return
		}
		if level := c.logLevel(); level != "" {
			cfg.Logging.Level = level
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) logLevel() string {
	if c.logLevelFlag == nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
}

// loggerFor returns the shared logger tagged with the command path.
func (c *commandContext) loggerFor(cmd *cobra.Command) *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return logging.WithContext(commandCtx(cmd), c.logger)
}

func (c *commandContext) openStore() (*jobstore.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return jobstore.Open(cfg)
}

// mechanismFor loads the summary of mech from the mechanism directory.
// A missing summary is logged and yields a nil provider.
func (c *commandContext) mechanismFor(cmd *cobra.Command, mech string) mechanism.Provider {
	cfg, err := c.ensureConfig()
	if err != nil || strings.TrimSpace(mech) == "" {
		return nil
	}
	summary, err := mechanism.LoadSummary(mechanism.SummaryPath(cfg.Paths.MechanismDir, mech))
	if err != nil {
		logging.WarnWithContext(c.loggerFor(cmd), "mechanism summary unavailable", "mechanism_summary",
			logging.String("mechanism", mech),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "GA sub-mechanism defaults fall back to H2 and CO"),
		)
		return nil
	}
	return summary
}

// commandCtx returns the command's context tagged with its path.
func commandCtx(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return services.WithCommand(ctx, cmd.CommandPath())
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
