package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"brookesia/internal/fileutil"
	"brookesia/internal/job"
	"brookesia/internal/jobfile"
	"brookesia/internal/logging"
	"brookesia/internal/mechanism"
	"brookesia/internal/pipegraph"
	"brookesia/internal/services"
)

const maxParallelValidation = 8

func newJobCommand(ctx *commandContext) *cobra.Command {
	jobCmd := &cobra.Command{
		Use:   "job",
		Short: "Create, inspect and format job files",
	}
	jobCmd.AddCommand(newJobNewCommand(ctx))
	jobCmd.AddCommand(newJobShowCommand(ctx))
	jobCmd.AddCommand(newJobValidateCommand(ctx))
	jobCmd.AddCommand(newJobFmtCommand(ctx))
	jobCmd.AddCommand(newJobGraphCommand(ctx))
	jobCmd.AddCommand(newJobExportCommand(ctx))
	return jobCmd
}

// readJob parses a job file, resolving GA sub-mechanism defaults from the
// mechanism the file names.
func (c *commandContext) readJob(cmd *cobra.Command, path string) (*job.Job, error) {
	resolve := func(mech string) mechanism.Provider { return c.mechanismFor(cmd, mech) }
	j, err := jobfile.ReadFile(path, jobfile.WithMechanismResolver(resolve))
	if err != nil {
		var perr *jobfile.ParseError
		if errors.As(err, &perr) {
			return nil, services.Wrap(services.ErrValidation, "job", "parse", "", err)
		}
		if errors.Is(err, os.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "job", "read", path, err)
		}
		return nil, err
	}
	return j, nil
}

type newJobOptions struct {
	output    string
	mech      string
	mainPath  string
	kinds     []string
	operators []string
	species   []string
	leadingGA bool
	force     bool
}

func newJobNewCommand(ctx *commandContext) *cobra.Command {
	var opts newJobOptions

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Scaffold a job file with default cases and operators",
		Example: "  brookesia job new --case reactor_HP --case free_flame --operator DRGEP_sp --species CO -o methane.inp\n" +
			"  brookesia job new --ga --operator SAR_r",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if opts.mech == "" {
				opts.mech = cfg.Defaults.Mechanism
			}
			if opts.mainPath == "" {
				opts.mainPath = cfg.Defaults.WorkDir
			}

			j, err := buildNewJob(opts, ctx.mechanismFor(cmd, opts.mech))
			if err != nil {
				return services.Wrap(services.ErrValidation, "job", "new", "", err)
			}

			if opts.output == "" {
				return jobfile.Encode(cmd.OutOrStdout(), j)
			}
			if !opts.force {
				if _, err := os.Stat(opts.output); err == nil {
					return services.Wrap(services.ErrConflict, "job", "new",
						fmt.Sprintf("%s already exists (use --force to replace it)", opts.output), nil)
				}
			}
			if err := jobfile.WriteFile(opts.output, j); err != nil {
				return err
			}
			ctx.loggerFor(cmd).Info("job file written",
				logging.Path(opts.output),
				logging.JobShape(j),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", opts.output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the job file here instead of stdout")
	cmd.Flags().StringVar(&opts.mech, "mech", "", "Detailed mechanism file (defaults.mechanism)")
	cmd.Flags().StringVar(&opts.mainPath, "main-path", "", "Engine output folder (defaults.main_path)")
	cmd.Flags().StringArrayVar(&opts.kinds, "case", nil, "Add a case of this config kind (repeatable)")
	cmd.Flags().StringArrayVar(&opts.operators, "operator", nil, "Add a reduction operator (repeatable)")
	cmd.Flags().StringSliceVar(&opts.species, "species", nil, "Species targets, comma separated")
	cmd.Flags().BoolVar(&opts.leadingGA, "ga", false, "Start the pipeline with a GA stage")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing output file")
	return cmd
}

func buildNewJob(opts newJobOptions, mech mechanism.Provider) (*job.Job, error) {
	j := job.NewJob()
	j.Main.Mechanism = opts.mech
	j.Main.WorkDir = opts.mainPath

	for _, name := range opts.species {
		if name = strings.TrimSpace(name); name != "" {
			j.AddSpeciesTarget(name)
		}
	}

	kinds := opts.kinds
	if len(kinds) == 0 {
		kinds = []string{string(job.KindReactorHP)}
	}
	for _, token := range kinds {
		kind, err := job.ParseConfigKind(strings.TrimSpace(token))
		if err != nil {
			return nil, err
		}
		j.AddCase(kind)
	}

	for _, token := range opts.operators {
		method, err := job.ParseMethod(strings.TrimSpace(token))
		if err != nil {
			return nil, err
		}
		j.Pipeline.Reductions = append(j.Pipeline.Reductions, j.NewReduction(method))
	}

	if opts.leadingGA {
		ga := job.NewOptimizationStage(mechanism.DefaultSubMechanisms(mech))
		if err := j.Pipeline.InsertOptimization(0, ga); err != nil {
			return nil, err
		}
	}

	if err := j.Validate(); err != nil {
		return nil, err
	}
	return j, nil
}

func newJobShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Summarize the cases and operators of a job file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := ctx.readJob(cmd, args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, j)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderJob(j))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the parsed job as JSON")
	return cmd
}

type validationResult struct {
	Path  string `json:"path"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func newJobValidateCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Parse and validate one or more job files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := validateFiles(cmd, ctx, args)

			failed := 0
			for _, r := range results {
				if !r.Valid {
					failed++
				}
			}

			if asJSON {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), renderReport(
					[]reportSection{{lines: validationLines(results)}},
					shouldColorize(cmd.OutOrStdout()),
				))
			}

			if failed > 0 {
				return services.Wrap(services.ErrValidation, "job", "validate",
					fmt.Sprintf("%d of %d job files are invalid", failed, len(results)), nil)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output results as JSON")
	return cmd
}

// validateFiles checks every path concurrently. Results keep argument order.
func validateFiles(cmd *cobra.Command, ctx *commandContext, paths []string) []validationResult {
	results := make([]validationResult, len(paths))

	g, _ := errgroup.WithContext(commandCtx(cmd))
	g.SetLimit(maxParallelValidation)
	for i, path := range paths {
		g.Go(func() error {
			r := validationResult{Path: path, Valid: true}
			j, err := jobfile.ReadFile(path)
			if err == nil {
				err = j.Validate()
			}
			if err != nil {
				r.Valid = false
				r.Error = strings.ReplaceAll(err.Error(), "\n", "; ")
			}
			results[i] = r
			return nil
		})
	}
	_ = g.Wait()

	logger := ctx.loggerFor(cmd)
	for _, r := range results {
		if !r.Valid {
			logger.Debug("job file rejected", logging.Path(r.Path), logging.String("reason", r.Error))
		}
	}
	return results
}

func newJobFmtCommand(ctx *commandContext) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "fmt <file>",
		Short: "Rewrite a job file in canonical layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			j, err := ctx.readJob(cmd, path)
			if err != nil {
				return err
			}
			data, err := jobfile.Marshal(j)
			if err != nil {
				return services.Wrap(services.ErrValidation, "job", "fmt", "", err)
			}
			if !write {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			original, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			if bytes.Equal(original, data) {
				return nil
			}
			if err := jobfile.WriteFile(path, j); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Formatted %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the result back to the file")
	return cmd
}

func newJobGraphCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "graph <file>",
		Short: "Render the operator pipeline as Graphviz DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := ctx.readJob(cmd, args[0])
			if err != nil {
				return err
			}
			if output == "" {
				return pipegraph.WriteDOT(cmd.OutOrStdout(), j)
			}
			var buf bytes.Buffer
			if err := pipegraph.WriteDOT(&buf, j); err != nil {
				return err
			}
			if err := fileutil.WriteAtomic(output, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the DOT file here instead of stdout")
	return cmd
}

func newJobExportCommand(ctx *commandContext) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export a parsed job file as JSON or YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := ctx.readJob(cmd, args[0])
			if err != nil {
				return err
			}
			return writeFormatted(cmd, format, j)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format (json, yaml)")
	return cmd
}

// draftName derives a store name from a job file path.
func draftName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
