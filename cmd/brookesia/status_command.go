package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"brookesia/internal/jobstore"
	"brookesia/internal/preflight"
)

type statusReport struct {
	Checks []preflight.Result `json:"checks"`
	Drafts map[string]int     `json:"drafts"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show environment checks and draft counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			statusCtx := commandCtx(cmd)

			report := statusReport{
				Checks: preflight.RunAll(statusCtx, cfg),
				Drafts: map[string]int{
					string(jobstore.StatusDraft):     0,
					string(jobstore.StatusSubmitted): 0,
				},
			}
			storeErr := ctx.withStore(func(store *jobstore.Store) error {
				counts, err := store.CountByStatus(statusCtx)
				if err != nil {
					return err
				}
				for status, n := range counts {
					report.Drafts[string(status)] = n
				}
				return nil
			})

			if asJSON {
				if storeErr != nil {
					return storeErr
				}
				return writeJSON(cmd, report)
			}

			store := reportSection{title: "Drafts"}
			if storeErr != nil {
				store.lines = []reportLine{{label: "Job store", verdict: verdictFail, detail: storeErr.Error()}}
			} else {
				store.lines = []reportLine{
					{label: "Job store", verdict: verdictPass, detail: cfg.StorePath()},
					{label: "Drafts", detail: strconv.Itoa(report.Drafts[string(jobstore.StatusDraft)])},
					{label: "Submitted", detail: strconv.Itoa(report.Drafts[string(jobstore.StatusSubmitted)])},
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderReport(
				[]reportSection{{title: "Environment", lines: checkLines(report.Checks)}, store},
				shouldColorize(cmd.OutOrStdout()),
			))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output status as JSON")
	return cmd
}
