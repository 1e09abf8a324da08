package main

import (
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph [machine]",
	Short: "Print the transition diagram as Mermaid",
	Long:  `Prints a Mermaid stateDiagram-v2 of the machine. With --input, the states visited on that input are highlighted.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var machine string
		if len(args) > 0 {
			machine = args[0]
		}
		var input *string
		if cmd.Flags().Changed("input") {
			s, _ := cmd.Flags().GetString("input")
			input = &s
		}
		return cli.GraphMachine(cmd.Context(), options(cmd), machine, input, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("input", "", "Highlight the path taken on this input")
}
