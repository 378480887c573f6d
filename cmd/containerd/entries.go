package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kbukum/container/bootstrap"
	"github.com/kbukum/container/container"
)

func newEntriesCmd(flags *rootFlags) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "Attach the configured handles, print the registry and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			app, err := bootstrap.New(cfg, bootstrap.WithSummaryOutput(io.Discard))
			if err != nil {
				return err
			}
			return app.RunTask(cmd.Context(), func(context.Context) error {
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(app.Registry.Entries())
				}
				return printEntries(cmd.OutOrStdout(), app.Registry.Entries())
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print entries as JSON")
	return cmd
}

func printEntries(w io.Writer, entries []container.EntryInfo) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tCATEGORY\tTYPE\tATTACHED")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Key, e.Category, e.Type, e.AttachedAt.Format("15:04:05"))
	}
	return tw.Flush()
}
