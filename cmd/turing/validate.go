package main

import (
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [machine...]",
	Short: "Check machine descriptions",
	Long: `Reports description errors and reachability warnings (unreachable states,
dead ends, rules on final states). Validates every machine in --dir when no
machine is named.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.ValidateMachines(cmd.Context(), options(cmd), args, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
