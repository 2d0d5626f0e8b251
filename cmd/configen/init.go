package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"configen/internal/manifest"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [DIR]",
		Short: "Write a sample " + manifest.SampleFileName,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			path, err := manifest.WriteSample(dir)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)

			return nil
		},
	}
}
