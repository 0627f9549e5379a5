package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"brookesia/internal/config"
	"brookesia/internal/engine"
	"brookesia/internal/services"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := configTarget(targetPath)
			if err != nil {
				return err
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return services.Wrap(services.ErrConflict, "config", "init",
						fmt.Sprintf("config file already exists at %s (use --overwrite to replace it)", target), nil)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit engine.command and engine.workdir to point at your reduction engine before running jobs.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

// configTarget resolves where config init writes, defaulting to the
// user config directory.
func configTarget(flagValue string) (string, error) {
	if target := strings.TrimSpace(flagValue); target != "" {
		expanded, err := config.ExpandPath(target)
		if err != nil {
			return "", fmt.Errorf("resolve config path: %w", err)
		}
		return expanded, nil
	}
	target, err := config.DefaultConfigPath()
	if err != nil {
		return "", fmt.Errorf("determine default config path: %w", err)
	}
	return target, nil
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Validate configuration and show where jobs will go",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(ctx.configPath())
			if err != nil {
				return services.Wrap(services.ErrConfiguration, "config", "validate", "", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderReport([]reportSection{{
				title: "Configuration",
				lines: configLines(cfg, path, exists),
			}}, shouldColorize(out)))
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func configLines(cfg *config.Config, path string, exists bool) []reportLine {
	source := reportLine{label: "Config file", verdict: verdictPass, detail: path}
	if !exists {
		source.verdict, source.detail = verdictNote, path+" (not found, defaults used)"
	}
	commandLine := append([]string{cfg.Engine.Command}, engine.BuildArgs(cfg.Engine.Args, "<job file>")...)
	return []reportLine{
		source,
		{label: "Condition files", detail: cfg.Paths.ConditionsDir},
		{label: "Mechanisms", detail: cfg.Paths.MechanismDir},
		{label: "Job store", detail: cfg.StorePath()},
		{label: "Engine", detail: strings.Join(commandLine, " ")},
	}
}
