package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the configen command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "configen",
		Short:         "Generate typed config structs from Go callables",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().Bool("log-json", false, "log in JSON")

	root.AddCommand(
		newGenCmd(),
		newInitCmd(),
	)

	return root
}
