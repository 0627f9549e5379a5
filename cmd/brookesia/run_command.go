package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"brookesia/internal/engine"
	"brookesia/internal/job"
	"brookesia/internal/jobfile"
	"brookesia/internal/jobstore"
	"brookesia/internal/mechanism"
	"brookesia/internal/preflight"
	"brookesia/internal/services"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var draftRef string
	var name string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Submit a job file or stored draft to the reduction engine",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 0) == (draftRef == "") {
				return services.Wrap(services.ErrValidation, "run", "arguments", "pass either a job file or --draft", nil)
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runCtx := commandCtx(cmd)

			if failed := preflight.Failed(preflight.RunAll(runCtx, cfg)); len(failed) > 0 {
				parts := make([]string, 0, len(failed))
				for _, r := range failed {
					parts = append(parts, fmt.Sprintf("%s: %s", r.Name, r.Detail))
				}
				return services.Wrap(services.ErrConfiguration, "run", "preflight", strings.Join(parts, "; "), nil)
			}

			var (
				j     *job.Job
				draft *jobstore.Draft
				store *jobstore.Store
			)
			if draftRef != "" {
				store, err = ctx.openStore()
				if err != nil {
					return err
				}
				defer store.Close()
				draft, err = store.Lookup(runCtx, draftRef)
				if err != nil {
					return err
				}
				resolve := func(mech string) mechanism.Provider { return ctx.mechanismFor(cmd, mech) }
				j, err = jobfile.Unmarshal([]byte(draft.Content), jobfile.WithMechanismResolver(resolve))
				if err != nil {
					return services.Wrap(services.ErrValidation, "run", "parse draft", draft.Name, err)
				}
				if name == "" {
					name = draft.Name
				}
				runCtx = services.WithStoreID(runCtx, draft.ID)
			} else {
				j, err = ctx.readJob(cmd, args[0])
				if err != nil {
					return err
				}
				if name == "" {
					name = draftName(args[0])
				}
			}

			runCtx = services.WithJobName(runCtx, name)
			runner := engine.NewRunner(cfg, engine.WithLogger(ctx.loggerFor(cmd)))
			handoff, err := runner.Submit(runCtx, j, name)
			if err != nil {
				return err
			}

			if draft != nil {
				if err := store.MarkSubmitted(runCtx, draft.ID, handoff.RequestID); err != nil {
					// The engine is already running; report the handoff anyway.
					return errors.Join(printHandoff(cmd, handoff, asJSON), err)
				}
			}
			return printHandoff(cmd, handoff, asJSON)
		},
	}
	cmd.Flags().StringVar(&draftRef, "draft", "", "Submit a stored draft by id or name")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Archive name for the submitted job file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the handoff as JSON")
	return cmd
}

func printHandoff(cmd *cobra.Command, h *engine.Handoff, asJSON bool) error {
	if asJSON {
		return writeJSON(cmd, h)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Engine started (pid %d)\n", h.PID)
	fmt.Fprintf(out, "  Request: %s\n", h.RequestID)
	fmt.Fprintf(out, "  Input:   %s\n", h.InputPath)
	if h.ArchivePath != "" {
		fmt.Fprintf(out, "  Archive: %s\n", h.ArchivePath)
	}
	fmt.Fprintf(out, "  Log:     %s\n", h.LogPath)
	return nil
}
