package main

import (
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [machine] [input...]",
	Short: "Run a machine on input strings",
	Long: `Runs a machine to completion on each input. The machine is a file path or
a name in --dir; when omitted, the only machine in --dir (or "main") is used.
Without inputs, one input per line is read from standard input.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := options(cmd)
		opts.Verbose, _ = cmd.Flags().GetBool("verbose")
		opts.Headless, _ = cmd.Flags().GetBool("headless")

		var machine string
		var inputs []string
		if len(args) > 0 {
			machine, inputs = args[0], args[1:]
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		err := cli.RunMachine(ctx, opts, machine, inputs, os.Stdin, os.Stdout)
		if ctx.Signal() != nil {
			return cli.HandleExecutionError(ctx.Err())
		}
		return cli.HandleExecutionError(err)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("verbose", "v", false, "Print every step with the tape and head position")
	runCmd.Flags().Bool("headless", false, "Run in headless mode (no prompts, one line per result)")
}
