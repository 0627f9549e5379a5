package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"brookesia/internal/fileutil"
	"brookesia/internal/jobfile"
	"brookesia/internal/jobstore"
	"brookesia/internal/logging"
	"brookesia/internal/services"
	"brookesia/internal/textutil"
)

const shortIDLength = 8

func newStoreCommand(ctx *commandContext) *cobra.Command {
	storeCmd := &cobra.Command{
		Use:   "store",
		Short: "Keep draft job files in the local store",
	}
	storeCmd.AddCommand(newStoreSaveCommand(ctx))
	storeCmd.AddCommand(newStoreListCommand(ctx))
	storeCmd.AddCommand(newStoreGetCommand(ctx))
	storeCmd.AddCommand(newStoreDeleteCommand(ctx))
	return storeCmd
}

func (c *commandContext) withStore(fn func(*jobstore.Store) error) error {
	store, err := c.openStore()
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func newStoreSaveCommand(ctx *commandContext) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "save <file>",
		Short: "Save a job file as a named draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			j, err := ctx.readJob(cmd, path)
			if err != nil {
				return err
			}
			// Store the canonical layout so drafts round-trip byte for byte.
			data, err := jobfile.Marshal(j)
			if err != nil {
				return services.Wrap(services.ErrValidation, "store", "save", "", err)
			}
			if name == "" {
				name = draftName(path)
			}
			summary := jobstore.Summary{Cases: len(j.ActiveCases()), Stages: j.Pipeline.Len()}

			return ctx.withStore(func(store *jobstore.Store) error {
				draft, err := store.Save(commandCtx(cmd), name, string(data), summary)
				if err != nil {
					return err
				}
				ctx.loggerFor(cmd).Info("draft saved",
					logging.String(logging.FieldStoreID, draft.ID),
					logging.String("name", draft.Name),
				)
				fmt.Fprintf(cmd.OutOrStdout(), "Saved draft %s (%s)\n", draft.Name, shortID(draft.ID))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "Draft name (defaults to the file name)")
	return cmd
}

func newStoreListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored drafts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *jobstore.Store) error {
				drafts, err := store.List(commandCtx(cmd))
				if err != nil {
					return err
				}
				if asJSON {
					if drafts == nil {
						drafts = []*jobstore.Draft{}
					}
					return writeJSON(cmd, drafts)
				}
				if len(drafts) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No drafts stored.")
					return nil
				}
				rows := make([][]string, 0, len(drafts))
				for _, d := range drafts {
					rows = append(rows, []string{
						shortID(d.ID),
						d.Name,
						textutil.Label(string(d.Status)),
						strconv.Itoa(d.Cases),
						strconv.Itoa(d.Stages),
						d.UpdatedAt.Local().Format(time.DateTime),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), grid{
					columns: []gridColumn{leftCol("ID"), leftCol("Name"), leftCol("Status"), rightCol("Cases"), rightCol("Stages"), leftCol("Updated")},
					rows:    rows,
					footer:  []string{"", fmt.Sprintf("%d drafts", len(drafts))},
				}.render())
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output drafts as JSON")
	return cmd
}

func newStoreGetCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get <id|name>",
		Short: "Print a stored draft or write it to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *jobstore.Store) error {
				draft, err := store.Lookup(commandCtx(cmd), args[0])
				if err != nil {
					return err
				}
				if output == "" {
					_, err := fmt.Fprint(cmd.OutOrStdout(), draft.Content)
					return err
				}
				if err := fileutil.WriteAtomic(output, []byte(draft.Content), 0o644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the draft to this path")
	return cmd
}

func newStoreDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id|name>",
		Short: "Remove a stored draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *jobstore.Store) error {
				draft, err := store.Lookup(commandCtx(cmd), args[0])
				if err != nil {
					return err
				}
				if err := store.Delete(commandCtx(cmd), draft.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted draft %s\n", draft.Name)
				return nil
			})
		},
	}
}

func shortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[:shortIDLength]
}
