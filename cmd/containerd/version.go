package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/container/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, _ []string) {
			info := version.Get()
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", serviceName, info.String(), info.GoVersion)
		},
	}
}
