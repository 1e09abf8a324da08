package main

import (
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Define a machine interactively",
	Long:  `Asks for states, alphabet, blank, initial and final states, then one transition per line until 'fin'. The machine is written to <dir>/<name>.yaml.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := cli.NewMachine(cmd.Context(), options(cmd), args[0], os.Stdin, os.Stdout)
		return err
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}
