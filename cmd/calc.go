package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"taskboard/internal/calculator"
)

func newCalcCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "calc <a> <op> <b>",
		Short:   "Evaluate a two-operand expression such as \"2 ^ 10\"",
		Example: "  taskboard calc 2 + 3\n  taskboard calc \"4 / 0\"",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := calculator.Calculate(strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(v, 'g', -1, 64))
			return nil
		},
	}
}
