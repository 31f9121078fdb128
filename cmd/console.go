package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"taskboard/internal/console"
)

func newConsoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Interactive session over the in-process todo, note, counter, calculator and stopwatch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "type help for commands")
			return console.New(cmd.OutOrStdout()).Run(cmd.Context(), cmd.InOrStdin())
		},
	}
}
